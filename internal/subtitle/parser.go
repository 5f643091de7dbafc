package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/capedit/capedit/internal/caption"
)

var timestampRegex = regexp.MustCompile(
	`(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`,
)

// ParseFile reads an SRT file into raw spans. Entries with reversed
// or zero-length ranges or empty text are dropped, matching the
// filtering applied to transcription output.
func ParseFile(path string) ([]caption.Span, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	var spans []caption.Span
	var current *caption.Span
	var textLines []string
	sawTimestamp := false
	lineNum := 0

	flush := func() {
		if current == nil || !sawTimestamp {
			current = nil
			textLines = nil
			sawTimestamp = false
			return
		}
		text := strings.TrimSpace(strings.Join(textLines, "\n"))
		if text != "" && current.StartTime < current.EndTime {
			current.Text = text
			spans = append(spans, *current)
		}
		current = nil
		textLines = nil
		sawTimestamp = false
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			if _, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
				current = &caption.Span{}
				continue
			}
			// tolerate blocks without an index line
			current = &caption.Span{}
		}

		if !sawTimestamp {
			matches := timestampRegex.FindStringSubmatch(line)
			if len(matches) == 9 {
				start, err := parseTimestamp(matches[1], matches[2], matches[3], matches[4])
				if err != nil {
					return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
				}
				end, err := parseTimestamp(matches[5], matches[6], matches[7], matches[8])
				if err != nil {
					return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
				}
				current.StartTime = start
				current.EndTime = end
				sawTimestamp = true
				continue
			}
		}

		textLines = append(textLines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return spans, nil
}

func parseTimestamp(hours, minutes, seconds, millis string) (float64, error) {
	h, err := strconv.Atoi(hours)
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, err
	}
	s, err := strconv.Atoi(seconds)
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(millis)
	if err != nil {
		return 0, err
	}

	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000, nil
}
