package session

import "encoding/json"

// StatusVersion is the status response's embedded version object.
type StatusVersion struct {
	Name     string `json:"name"`
	Protocol int    `json:"protocol"`
}

// StatusPlayers is the status response's player-count summary.
type StatusPlayers struct {
	Max    int             `json:"max"`
	Online int             `json:"online"`
	Sample []StatusPlayerID `json:"sample,omitempty"`
}

// StatusPlayerID is one entry of the players.sample list.
type StatusPlayerID struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// StatusResponse is the JSON document sent in reply to a status request
// (spec.md §4.9 "Status phase").
type StatusResponse struct {
	Version     StatusVersion `json:"version"`
	Players     StatusPlayers `json:"players"`
	Description any           `json:"description"`
	Favicon     string        `json:"favicon,omitempty"`
}

// MarshalJSON-equivalent helper: Encode renders the response to the JSON
// string the status-response packet carries as its single string field.
func (r StatusResponse) Encode() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
