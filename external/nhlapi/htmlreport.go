package nhlapi

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/crease-analytics/rinkline/internal/usecase"
)

// The TOI report marks player sections with this cell class and shift rows
// with alternating row colors.
const playerHeadingClass = "playerHeading + border"

type toiRow struct {
	shiftNumber int
	period      string
	startTime   string
	endTime     string
}

// parseTOIReport extracts shift records from one legacy time-on-ice HTML
// report. Player sections are delimited by heading cells ("97 MCDAVID,
// CONNOR"); within a section shift numbers restart from 1, which is how
// rows are re-attached to their player.
func parseTOIReport(raw []byte, teamAbbrev string, teamID int64) ([]usecase.ExternalShift, error) {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse toi report: %w", err)
	}

	var headings []string
	var rows []toiRow

	var walk func(node *html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			switch node.Data {
			case "td":
				if attrValue(node, "class") == playerHeadingClass {
					headings = append(headings, nodeText(node))
				}
			case "tr":
				if class := attrValue(node, "class"); class == "evenColor" || class == "oddColor" {
					if row, ok := shiftRowFrom(node); ok {
						rows = append(rows, row)
					}
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	out := make([]usecase.ExternalShift, 0, len(rows))
	playerIndex := 0
	prevShiftNumber := 0

	for _, row := range rows {
		// Shift numbers restart when the report moves to the next player.
		if row.shiftNumber < prevShiftNumber {
			playerIndex++
		}
		prevShiftNumber = row.shiftNumber

		if playerIndex >= len(headings) {
			break
		}

		// Only rows showing "elapsed / remaining" times are real shifts.
		if !strings.Contains(row.startTime, "/") || !strings.Contains(row.endTime, "/") {
			continue
		}

		jersey, firstName, lastName, ok := splitPlayerHeading(headings[playerIndex])
		if !ok {
			continue
		}

		out = append(out, usecase.ExternalShift{
			TeamID:       teamID,
			TeamAbbrev:   teamAbbrev,
			FirstName:    firstName,
			LastName:     lastName,
			JerseyNumber: jersey,
			Period:       parseReportPeriod(row.period),
			StartTime:    elapsedPart(row.startTime),
			EndTime:      elapsedPart(row.endTime),
			ShiftNumber:  row.shiftNumber,
		})
	}

	return out, nil
}

func shiftRowFrom(tr *html.Node) (toiRow, bool) {
	var cells []string
	for child := tr.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.ElementNode && child.Data == "td" {
			cells = append(cells, nodeText(child))
		}
	}
	if len(cells) < 4 {
		return toiRow{}, false
	}

	shiftNumber, err := strconv.Atoi(strings.TrimSpace(cells[0]))
	if err != nil {
		return toiRow{}, false
	}

	return toiRow{
		shiftNumber: shiftNumber,
		period:      strings.TrimSpace(cells[1]),
		startTime:   strings.TrimSpace(cells[2]),
		endTime:     strings.TrimSpace(cells[3]),
	}, true
}

// splitPlayerHeading breaks "97 MCDAVID, CONNOR" into its parts.
func splitPlayerHeading(heading string) (jersey int, firstName, lastName string, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(heading), " ", 2)
	if len(fields) != 2 {
		return 0, "", "", false
	}

	jersey, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, "", "", false
	}

	name := fields[1]
	if comma := strings.Index(name, ","); comma >= 0 {
		lastName = strings.TrimSpace(name[:comma])
		firstName = strings.TrimSpace(name[comma+1:])
	} else {
		lastName = strings.TrimSpace(name)
	}

	return jersey, firstName, lastName, true
}

// parseReportPeriod handles the report's "OT" marker, which the structured
// feed numbers as period 4.
func parseReportPeriod(raw string) int {
	if strings.EqualFold(raw, "OT") {
		return 4
	}
	period, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return period
}

// elapsedPart takes the elapsed half of an "elapsed / remaining" pair.
func elapsedPart(raw string) string {
	if slash := strings.Index(raw, "/"); slash >= 0 {
		return strings.TrimSpace(raw[:slash])
	}
	return strings.TrimSpace(raw)
}

func attrValue(node *html.Node, name string) string {
	for _, attr := range node.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(node)
	return strings.TrimSpace(builder.String())
}
