package models

// Team represents an NFL franchise under its canonical identity
type Team struct {
	Abbr       string `json:"abbr"`
	City       string `json:"city"`
	Name       string `json:"name"`
	Conference string `json:"conference"`
	Division   string `json:"division"`
}

// FullName returns the canonical full team name, e.g. "Kansas City Chiefs"
func (t *Team) FullName() string {
	return t.City + " " + t.Name
}

// String returns the canonical full team name
func (t *Team) String() string {
	return t.FullName()
}
