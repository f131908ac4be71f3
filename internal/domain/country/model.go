package country

import "fmt"

// Country is a national association the provider groups teams and leagues by.
// Rows are created on first sight and never rewritten by sync runs.
type Country struct {
	ID      int64
	Name    string
	Code    string
	FlagURL string
}

func (c Country) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("country name is required")
	}

	return nil
}
