package apifootball

// Wire types for the provider's v3 endpoints. Every payload shares the same
// envelope: a "response" array plus a "results" count; the interesting data
// nests one level down per endpoint.

type leagueItem struct {
	League struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
		Logo string `json:"logo"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
		Flag string `json:"flag"`
	} `json:"country"`
	Seasons []struct {
		Year    int  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

type teamItem struct {
	Team struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Code     string `json:"code"`
		Logo     string `json:"logo"`
		National bool   `json:"national"`
	} `json:"team"`
}

type standingsItem struct {
	League struct {
		ID        int64            `json:"id"`
		Season    int              `json:"season"`
		Round     string           `json:"round"`
		Standings [][]standingsRow `json:"standings"`
	} `json:"league"`
}

type standingsRow struct {
	Rank int `json:"rank"`
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Points    int          `json:"points"`
	GoalsDiff int          `json:"goalsDiff"`
	Form      string       `json:"form"`
	All       standingStat `json:"all"`
	Home      standingStat `json:"home"`
	Away      standingStat `json:"away"`
}

type standingStat struct {
	Played int `json:"played"`
	Win    int `json:"win"`
	Draw   int `json:"draw"`
	Lose   int `json:"lose"`
	Goals  struct {
		For     int `json:"for"`
		Against int `json:"against"`
	} `json:"goals"`
}

type fixtureItem struct {
	Fixture struct {
		ID      int64  `json:"id"`
		Referee string `json:"referee"`
		Date    string `json:"date"`
		Venue   struct {
			Name string `json:"name"`
		} `json:"venue"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64 `json:"id"`
		Season int   `json:"season"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID int64 `json:"id"`
		} `json:"home"`
		Away struct {
			ID int64 `json:"id"`
		} `json:"away"`
	} `json:"teams"`
}
