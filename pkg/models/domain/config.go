package domain

import "fmt"

// Profile is a named datasource connection read from the profiles file.
type Profile struct {
	Name     string
	Driver   string
	DSN      string
	Settings map[string]string
}

func (p Profile) String() string {
	return fmt.Sprintf("%s:%s", p.Driver, p.Name)
}
