package entityset

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/featureforge/entityset/frame"
	"github.com/featureforge/entityset/manifest"
	"github.com/featureforge/entityset/vartype"
)

// WriteEntitySet serializes an entity set into a local directory: one data
// file per entity under data/ plus the data_description.json manifest. The
// format option selects csv (default), parquet or pickle.
func WriteEntitySet(ctx context.Context, es *EntitySet, dir string, optFns ...Option) error {
	o := applyOptions(optFns)

	switch o.format {
	case "csv", "parquet", "pickle":
	default:
		return &UnsupportedFormatError{Format: o.format}
	}

	dataDir := filepath.Join(dir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	m := &manifest.Manifest{
		ID:            es.ID,
		SchemaVersion: manifest.SchemaVersion,
	}
	for _, e := range es.Entities() {
		location := path.Join("data", e.ID+formatExtension(o.format))
		file := filepath.Join(dir, filepath.FromSlash(location))

		var err error
		switch o.format {
		case "csv":
			err = frame.WriteCSV(e.Frame, file, frame.CSVOptions{Compression: o.compression})
		case "parquet":
			err = frame.WriteParquet(ctx, e.Frame, file)
		case "pickle":
			err = frame.WritePickle(e.Frame, file)
		}
		if err != nil {
			return err
		}
		m.Entities.Set(e.ID, entityDescription(e, o.format, location, o.compression))
	}

	for _, r := range es.Relationships() {
		m.Relationships = append(m.Relationships, manifest.RelationshipDescription{
			Parent: [2]string{r.ParentEntity().ID, r.Parent.ID},
			Child:  [2]string{r.ChildEntity().ID, r.Child.ID},
		})
	}

	if err := manifest.Write(m, dir); err != nil {
		return err
	}
	o.logger.LogWrite(ctx, es.ID, dir, o.format)
	return nil
}

func formatExtension(format string) string {
	switch format {
	case "parquet":
		return ".parquet"
	case "pickle":
		return ".pkl"
	default:
		return ".csv"
	}
}

func entityDescription(e *Entity, format, location, compression string) *manifest.EntityDescription {
	desc := &manifest.EntityDescription{
		ID:        e.ID,
		Index:     e.Index,
		TimeIndex: e.TimeIndex,
		Properties: manifest.EntityProperties{
			SecondaryTimeIndex: e.SecondaryTimeIndex,
			LastTimeIndex:      e.LastTimeIndex() != nil,
		},
		LoadingInfo: manifest.LoadingInfo{
			Type:     format,
			Location: location,
			Params:   formatParams(format, compression),
			Properties: manifest.LoadingProperties{
				Dtypes: e.Frame.Dtypes(),
			},
		},
	}
	for _, v := range e.Variables() {
		spec := manifest.TypeSpec{Value: v.Type.TypeString()}
		if p, ok := v.Type.(vartype.Parameterized); ok {
			spec.Args = p.TypeArgs()
		}
		desc.Variables = append(desc.Variables, manifest.VariableDescription{
			ID:   v.ID,
			Type: spec,
			Properties: manifest.VariableProperties{
				InterestingValues: v.InterestingValues,
			},
		})
	}
	return desc
}

func formatParams(format, compression string) map[string]any {
	switch format {
	case "csv":
		return map[string]any{
			"engine":      "c",
			"compression": compression,
			"encoding":    "utf-8",
		}
	case "parquet":
		return map[string]any{"engine": "arrow"}
	default:
		return map[string]any{}
	}
}
