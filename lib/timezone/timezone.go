package timezone

import "time"

// Location is the location used for run timestamps, report times and the
// daemon schedule, it defaults to UTC.
var Location = time.UTC

// Load replaces Location with the named IANA location, an empty name
// leaves it untouched.
func Load(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

func Now() time.Time {
	return time.Now().In(Location)
}
