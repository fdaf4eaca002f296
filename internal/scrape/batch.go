package scrape

import (
	"encoding/json"
	"os"
)

// WriteBatch writes listings as a JSON array to path. The batch file is the
// handoff between a scrape pass and the database load step (cars.json).
func WriteBatch(path string, listings []Listing) error {
	if listings == nil {
		listings = []Listing{}
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadBatch reads a batch file written by WriteBatch.
func ReadBatch(path string) ([]Listing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var listings []Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}
