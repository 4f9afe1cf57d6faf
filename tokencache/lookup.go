package tokencache

import (
	"database/sql"
	"encoding/json"

	"nuskha/kashshaf/corpus"
	"nuskha/kashshaf/corpus/kerr"
)

// lookupTables holds the five tables loaded in full at construction.
type lookupTables struct {
	roots       map[int64]string
	lemmas      map[int64]string
	posTypes    map[int64]string
	featureSets map[int64][]string
	cliticSets  map[int64][]corpus.TokenClitic
}

func loadLookupTables(db *sql.DB) (lookupTables, error) {
	roots, err := loadStringTable(db, "SELECT id, root FROM roots")
	if err != nil {
		return lookupTables{}, err
	}
	lemmas, err := loadStringTable(db, "SELECT id, lemma FROM lemmas")
	if err != nil {
		return lookupTables{}, err
	}
	posTypes, err := loadStringTable(db, "SELECT id, pos FROM pos_types")
	if err != nil {
		return lookupTables{}, err
	}
	featureSets, err := loadFeatureSets(db)
	if err != nil {
		return lookupTables{}, err
	}
	cliticSets, err := loadCliticSets(db)
	if err != nil {
		return lookupTables{}, err
	}

	return lookupTables{
		roots:       roots,
		lemmas:      lemmas,
		posTypes:    posTypes,
		featureSets: featureSets,
		cliticSets:  cliticSets,
	}, nil
}

func loadStringTable(db *sql.DB, query string) (map[int64]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, kerr.Wrap(kerr.StoreFailure, "failed to query lookup table", err)
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, kerr.Wrap(kerr.StoreFailure, "failed to decode lookup row", err)
		}
		out[id] = value
	}
	return out, rows.Err()
}

// loadFeatureSets loads feature_sets(id, features), where features is
// a JSON array. A row whose JSON fails to parse yields an empty list
// rather than aborting the whole table load.
func loadFeatureSets(db *sql.DB) (map[int64][]string, error) {
	rows, err := db.Query("SELECT id, features FROM feature_sets")
	if err != nil {
		return nil, kerr.Wrap(kerr.StoreFailure, "failed to query feature_sets", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, kerr.Wrap(kerr.StoreFailure, "failed to decode feature_sets row", err)
		}
		var features []string
		if err := json.Unmarshal([]byte(raw), &features); err != nil {
			features = nil
		}
		out[id] = features
	}
	return out, rows.Err()
}

// loadCliticSets loads clitic_sets(id, clitics), where clitics is a
// JSON array of {type, display} objects.
func loadCliticSets(db *sql.DB) (map[int64][]corpus.TokenClitic, error) {
	rows, err := db.Query("SELECT id, clitics FROM clitic_sets")
	if err != nil {
		return nil, kerr.Wrap(kerr.StoreFailure, "failed to query clitic_sets", err)
	}
	defer rows.Close()

	out := make(map[int64][]corpus.TokenClitic)
	for rows.Next() {
		var id int64
		var raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, kerr.Wrap(kerr.StoreFailure, "failed to decode clitic_sets row", err)
		}
		var clitics []corpus.TokenClitic
		if err := json.Unmarshal([]byte(raw), &clitics); err != nil {
			clitics = nil
		}
		out[id] = clitics
	}
	return out, rows.Err()
}
