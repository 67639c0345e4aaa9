package pulses

import (
	"fmt"
	"sort"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
)

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

// ChannelMappingEntry is one row of the ChannelMapping table.
type ChannelMappingEntry struct {
	Code      string `db:"Code"`
	Label     string `db:"Label"`
	IsTrigger bool   `db:"IsTrigger"`
	Position  int    `db:"Position"`
}

// GetChannelsFromDB reads the trigger and detection channels valid for
// runNumber.
func GetChannelsFromDB(db *sqlx.DB, runNumber int) (ChannelSet, error) {
	query := "SELECT Code, Label, IsTrigger, Position FROM ChannelMapping WHERE MinRun <= ? and MaxRun >= ? ORDER BY Position"

	if GetConfiguration().Verbosity > 0 {
		logger.Info(fmt.Sprintf("Reading channel mapping for run %d from database", runNumber), "database")
	}
	if GetConfiguration().Verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}

	rows, err := db.Queryx(query, runNumber, runNumber)
	if err != nil {
		return ChannelSet{}, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	entries := make([]ChannelMappingEntry, 0)
	for rows.Next() {
		entry := ChannelMappingEntry{}
		if err := rows.StructScan(&entry); err != nil {
			return ChannelSet{}, fmt.Errorf("error scanning DB row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return ChannelSet{}, fmt.Errorf("error iterating DB rows: %w", err)
	}
	return channelsFromEntries(entries, runNumber)
}

func channelsFromEntries(entries []ChannelMappingEntry, runNumber int) (ChannelSet, error) {
	sorted := make([]ChannelMappingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var channels ChannelSet
	for _, entry := range sorted {
		if entry.IsTrigger {
			if channels.Trigger != "" {
				return ChannelSet{}, fmt.Errorf("run %d has more than one trigger channel", runNumber)
			}
			channels.Trigger = EventCode(entry.Code)
			continue
		}
		channels.Detection = append(channels.Detection, DetectionChannel{
			Code:  EventCode(entry.Code),
			Label: entry.Label,
		})
	}
	if err := channels.Validate(); err != nil {
		return ChannelSet{}, fmt.Errorf("channel mapping for run %d: %w", runNumber, err)
	}
	return channels, nil
}
