package fixture

import "testing"

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]string{
		"":      StatusNotStarted,
		"  ns ": "NS",
		"ft":    "FT",
		"PST":   "PST",
	}
	for in, want := range cases {
		if got := NormalizeStatus(in); got != want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatusClassifiers(t *testing.T) {
	if !IsLiveStatus("1h") || IsLiveStatus("FT") {
		t.Fatal("live classification wrong")
	}
	if !IsFinishedStatus("aet") || IsFinishedStatus("NS") {
		t.Fatal("finished classification wrong")
	}
	if !IsCancelledLikeStatus("canc") || IsCancelledLikeStatus("FT") {
		t.Fatal("cancelled classification wrong")
	}
}

func TestFixtureValidate(t *testing.T) {
	valid := Fixture{ID: 1035045, LeagueID: 39, HomeTeamID: 33, AwayTeamID: 50}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid fixture rejected: %v", err)
	}

	for name, fx := range map[string]Fixture{
		"missing id":     {LeagueID: 39, HomeTeamID: 33, AwayTeamID: 50},
		"missing league": {ID: 1, HomeTeamID: 33, AwayTeamID: 50},
		"missing team":   {ID: 1, LeagueID: 39, HomeTeamID: 33},
	} {
		if err := fx.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
}
