package schema

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	objectsQuery = `SELECT name, custom, record_count
	                FROM sobjects
	                ORDER BY name`

	fieldsQuery = `SELECT sobject, name, createable, nillable, custom, defaulted_on_create, reference_to
	               FROM fields
	               ORDER BY sobject, name`
)

// objectRow is one row of the sobjects cache table.
type objectRow struct {
	Name   string
	Custom bool
	Count  sql.NullInt64
}

// fieldRow is one row of the fields cache table. ReferenceTo is a
// comma-separated list of target object names.
type fieldRow struct {
	Object          string
	Name            string
	Createable      bool
	Nillable        bool
	Custom          bool
	HasDefaultValue bool
	ReferenceTo     sql.NullString
}

// LoadSQL reads a schema snapshot from the relational schema cache. The
// cache is written by the describe machinery; the planner only reads it.
func LoadSQL(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	objects, err := queryObjects(ctx, db)
	if err != nil {
		return nil, err
	}

	fields, err := queryFields(ctx, db)
	if err != nil {
		return nil, err
	}

	return assemble(objects, fields)
}

func queryObjects(ctx context.Context, db *sql.DB) ([]objectRow, error) {
	rows, err := db.QueryContext(ctx, objectsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached objects: %w", err)
	}
	defer rows.Close()

	var out []objectRow
	for rows.Next() {
		var r objectRow
		if err := rows.Scan(&r.Name, &r.Custom, &r.Count); err != nil {
			return nil, fmt.Errorf("failed to scan cached object: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

func queryFields(ctx context.Context, db *sql.DB) ([]fieldRow, error) {
	rows, err := db.QueryContext(ctx, fieldsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query cached fields: %w", err)
	}
	defer rows.Close()

	var out []fieldRow
	for rows.Next() {
		var r fieldRow

		err := rows.Scan(&r.Object, &r.Name, &r.Createable, &r.Nillable, &r.Custom, &r.HasDefaultValue, &r.ReferenceTo)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cached field: %w", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// assemble turns cache rows into a snapshot. A field row for an object the
// cache does not list means the cache is inconsistent, which is fatal: the
// planner never works from a partial snapshot.
func assemble(objects []objectRow, fields []fieldRow) (*Snapshot, error) {
	byName := make(map[string]*Object, len(objects))
	list := make([]*Object, 0, len(objects))

	for _, r := range objects {
		var count *int
		if r.Count.Valid {
			count = CountOf(int(r.Count.Int64))
		}

		o := NewObject(r.Name, r.Custom, count)
		byName[r.Name] = o
		list = append(list, o)
	}

	for _, r := range fields {
		o, ok := byName[r.Object]
		if !ok {
			return nil, fmt.Errorf("schema cache lists field %s.%s for an unknown object", r.Object, r.Name)
		}

		o.Fields[r.Name] = &Field{
			Name:            r.Name,
			Createable:      r.Createable,
			Nillable:        r.Nillable,
			Custom:          r.Custom,
			HasDefaultValue: r.HasDefaultValue,
			ReferenceTo:     splitTargets(r.ReferenceTo),
		}
	}

	return NewSnapshot(list...)
}

func splitTargets(s sql.NullString) []string {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil
	}

	var out []string
	for _, t := range strings.Split(s.String, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}

	return out
}
