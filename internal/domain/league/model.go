package league

import "fmt"

// League is one competition for one season, keyed by the provider's league id.
type League struct {
	ID        int64
	Name      string
	Logo      string
	Type      string
	CountryID int64
	Season    int
}

func (l League) Validate() error {
	if l.ID == 0 {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.CountryID == 0 {
		return fmt.Errorf("league country is required")
	}
	if l.Season == 0 {
		return fmt.Errorf("league season is required")
	}

	return nil
}
