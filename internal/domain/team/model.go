package team

import "fmt"

// Team is a club or national side, keyed by the provider's team id.
type Team struct {
	ID        int64
	Name      string
	ShortName string
	Logo      string
	CountryID int64
	National  bool
}

func (t Team) Validate() error {
	if t.ID == 0 {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.CountryID == 0 {
		return fmt.Errorf("team country is required")
	}

	return nil
}
