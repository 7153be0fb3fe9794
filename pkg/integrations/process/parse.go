package process

import (
	"bufio"
	"encoding/csv"
	"strings"
)

// ParseTasklistCSV extracts image names from `tasklist /fo csv /nh` output.
// Each line looks like: "game.exe","1234","Console","1","5,000 K"
func ParseTasklistCSV(output string) []string {
	var names []string

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reader := csv.NewReader(strings.NewReader(line))
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		record, err := reader.Read()
		if err != nil || len(record) == 0 {
			names = append(names, strings.Trim(strings.SplitN(line, ",", 2)[0], "\""))
			continue
		}
		names = append(names, record[0])
	}

	return names
}

// ParsePS extracts names from `ps -eo comm=` output, one per line
func ParsePS(output string) []string {
	var names []string

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		names = append(names, line)
	}

	return names
}
