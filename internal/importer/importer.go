// Package importer reads structural models from node/member CSV tables
// or a single JSON document, converting coordinates to meters on the way
// in. Imported models typically go straight to internal/cleanup.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gantry-data/strukt/internal/geom"
	"github.com/gantry-data/strukt/internal/model"
	"github.com/gantry-data/strukt/internal/units"
)

// jsonModel is the on-disk JSON shape. Coordinates are in Units
// (defaults to meters when omitted).
type jsonModel struct {
	Name    string       `json:"name"`
	Units   string       `json:"units,omitempty"`
	Nodes   []jsonNode   `json:"nodes"`
	Members []jsonMember `json:"members,omitempty"`
}

type jsonNode struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

type jsonMember struct {
	ID      int64  `json:"id"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Section string `json:"section,omitempty"`
}

// ReadModelJSON parses a JSON model document.
func ReadModelJSON(r io.Reader) (*model.Model, error) {
	var doc jsonModel
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode model JSON: %w", err)
	}
	if doc.Units != "" && !units.IsValid(doc.Units) {
		return nil, fmt.Errorf("model %q: invalid units %q (valid: %s)", doc.Name, doc.Units, units.GetValidUnitsString())
	}

	m := model.New(doc.Name)
	for _, n := range doc.Nodes {
		x, _ := units.ToMeters(n.X, doc.Units)
		y, _ := units.ToMeters(n.Y, doc.Units)
		z, _ := units.ToMeters(n.Z, doc.Units)
		if err := m.AddNode(&model.Node{ID: n.ID, Position: geom.Point{X: x, Y: y, Z: z}}); err != nil {
			return nil, err
		}
	}
	for _, mem := range doc.Members {
		err := m.AddMember(&model.Member{ID: mem.ID, StartID: mem.Start, EndID: mem.End, Section: mem.Section})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ReadNodesCSV parses a node table with rows of the form id,x,y,z.
// A header row starting with a non-numeric first field is skipped.
// Coordinates are converted from unit to meters.
func ReadNodesCSV(r io.Reader, unit string) ([]*model.Node, error) {
	if unit != "" && !units.IsValid(unit) {
		return nil, fmt.Errorf("invalid units %q (valid: %s)", unit, units.GetValidUnitsString())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var nodes []*model.Node
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("node CSV row %d: %w", row+1, err)
		}
		row++
		if row == 1 && isHeader(record[0]) {
			continue
		}

		id, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("node CSV row %d: failed to parse node ID: %v", row, err)
		}
		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("node CSV row %d: failed to parse coordinate %d: %v", row, i+1, err)
			}
			coords[i], _ = units.ToMeters(v, unit)
		}
		nodes = append(nodes, &model.Node{
			ID:       id,
			Position: geom.Point{X: coords[0], Y: coords[1], Z: coords[2]},
		})
	}
	return nodes, nil
}

// ReadMembersCSV parses a member table with rows of the form
// id,start,end,section. The section field may be empty.
func ReadMembersCSV(r io.Reader) ([]*model.Member, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4
	cr.TrimLeadingSpace = true

	var members []*model.Member
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("member CSV row %d: %w", row+1, err)
		}
		row++
		if row == 1 && isHeader(record[0]) {
			continue
		}

		var ids [3]int64
		for i := 0; i < 3; i++ {
			ids[i], err = strconv.ParseInt(record[i], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("member CSV row %d: failed to parse field %d: %v", row, i+1, err)
			}
		}
		members = append(members, &model.Member{
			ID:      ids[0],
			StartID: ids[1],
			EndID:   ids[2],
			Section: strings.TrimSpace(record[3]),
		})
	}
	return members, nil
}

// LoadModelFiles assembles a model from a node CSV and an optional
// member CSV. The model is named after the nodes file.
func LoadModelFiles(nodesPath, membersPath, unit string) (*model.Model, error) {
	nf, err := os.Open(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open nodes file: %w", err)
	}
	defer nf.Close()

	nodes, err := ReadNodesCSV(nf, unit)
	if err != nil {
		return nil, err
	}

	m := model.New(strings.TrimSuffix(nodesPath, ".csv"))
	for _, n := range nodes {
		if err := m.AddNode(n); err != nil {
			return nil, err
		}
	}

	if membersPath != "" {
		mf, err := os.Open(membersPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open members file: %w", err)
		}
		defer mf.Close()

		members, err := ReadMembersCSV(mf)
		if err != nil {
			return nil, err
		}
		for _, mem := range members {
			if err := m.AddMember(mem); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func isHeader(field string) bool {
	_, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	return err != nil
}
