package domain

// State is a row of the read-only state lookup table
type State struct {
	ID           int    `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
}

// USStates returns the lookup rows seeded into a fresh database, ordered
// alphabetically with ids starting at 1.
func USStates() []State {
	names := []struct{ name, abbr string }{
		{"Alabama", "AL"}, {"Alaska", "AK"}, {"Arizona", "AZ"}, {"Arkansas", "AR"},
		{"California", "CA"}, {"Colorado", "CO"}, {"Connecticut", "CT"}, {"Delaware", "DE"},
		{"Florida", "FL"}, {"Georgia", "GA"}, {"Hawaii", "HI"}, {"Idaho", "ID"},
		{"Illinois", "IL"}, {"Indiana", "IN"}, {"Iowa", "IA"}, {"Kansas", "KS"},
		{"Kentucky", "KY"}, {"Louisiana", "LA"}, {"Maine", "ME"}, {"Maryland", "MD"},
		{"Massachusetts", "MA"}, {"Michigan", "MI"}, {"Minnesota", "MN"}, {"Mississippi", "MS"},
		{"Missouri", "MO"}, {"Montana", "MT"}, {"Nebraska", "NE"}, {"Nevada", "NV"},
		{"New Hampshire", "NH"}, {"New Jersey", "NJ"}, {"New Mexico", "NM"}, {"New York", "NY"},
		{"North Carolina", "NC"}, {"North Dakota", "ND"}, {"Ohio", "OH"}, {"Oklahoma", "OK"},
		{"Oregon", "OR"}, {"Pennsylvania", "PA"}, {"Rhode Island", "RI"}, {"South Carolina", "SC"},
		{"South Dakota", "SD"}, {"Tennessee", "TN"}, {"Texas", "TX"}, {"Utah", "UT"},
		{"Vermont", "VT"}, {"Virginia", "VA"}, {"Washington", "WA"}, {"West Virginia", "WV"},
		{"Wisconsin", "WI"}, {"Wyoming", "WY"},
	}

	states := make([]State, len(names))
	for i, n := range names {
		states[i] = State{ID: i + 1, Name: n.name, Abbreviation: n.abbr}
	}
	return states
}

// StateByAbbreviation finds a seeded state by its postal abbreviation
func StateByAbbreviation(abbr string) (State, bool) {
	for _, s := range USStates() {
		if s.Abbreviation == abbr {
			return s, true
		}
	}
	return State{}, false
}

// StateByID finds a seeded state by id
func StateByID(id int) (State, bool) {
	states := USStates()
	if id < 1 || id > len(states) {
		return State{}, false
	}
	return states[id-1], true
}
