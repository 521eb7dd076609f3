package entityset

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/featureforge/entityset/fetch"
	"github.com/featureforge/entityset/frame"
	"github.com/featureforge/entityset/manifest"
	"github.com/featureforge/entityset/vartype"
)

// ReadEntitySet reconstructs an entity set from a local directory, an
// HTTP(S) URL or an s3:// URI. Remote paths are staged into a scoped
// temporary directory, extracted, and read like a local directory; the
// staging directory is removed before ReadEntitySet returns.
func ReadEntitySet(ctx context.Context, path string, optFns ...Option) (*EntitySet, error) {
	o := applyOptions(optFns)

	if fetch.IsRemote(path) {
		dir, release, err := fetch.Stage(ctx, path, fetch.Options{
			Profile:    o.profile,
			Resolver:   o.resolver,
			HTTPClient: o.httpClient,
		})
		o.logger.LogFetch(ctx, path, err)
		if err != nil {
			return nil, err
		}
		defer release()

		m, err := manifest.Read(dir)
		if err != nil {
			return nil, err
		}
		return fromManifest(ctx, m, o)
	}

	m, err := manifest.Read(path)
	if err != nil {
		return nil, err
	}
	return fromManifest(ctx, m, o)
}

// FromManifest reconstructs an entity set from an already parsed manifest.
// Manifests without a path produce entities with empty, schema-only frames.
func FromManifest(ctx context.Context, m *manifest.Manifest, optFns ...Option) (*EntitySet, error) {
	return fromManifest(ctx, m, applyOptions(optFns))
}

func fromManifest(ctx context.Context, m *manifest.Manifest, o options) (*EntitySet, error) {
	if err := manifest.CheckSchemaVersion(m); err != nil {
		return nil, err
	}

	es := New(m.ID)
	es.logger = o.logger

	var lastTimeIndex []string
	for _, id := range m.Entities.IDs() {
		desc, _ := m.Entities.Get(id)
		params := mergeParams(desc.LoadingInfo.Params, o.params)
		err := readEntity(ctx, es, desc, m.Path, params)
		rows := 0
		if err == nil {
			e, _ := es.Entity(desc.ID)
			rows = e.NumRows()
		}
		o.logger.LogEntityLoad(ctx, desc.ID, desc.LoadingInfo.Type, rows, err)
		if err != nil {
			return nil, err
		}
		if desc.Properties.LastTimeIndex {
			lastTimeIndex = append(lastTimeIndex, desc.ID)
		}
	}

	// Relationships reference variables on two entities, so they resolve
	// only after every entity is registered.
	for _, rd := range m.Relationships {
		if _, err := es.AddRelationship(rd.Parent[0], rd.Parent[1], rd.Child[0], rd.Child[1]); err != nil {
			return nil, err
		}
	}

	if len(lastTimeIndex) > 0 {
		if err := es.AddLastTimeIndexes(lastTimeIndex...); err != nil {
			return nil, err
		}
	}

	o.logger.LogRead(ctx, es.ID, len(es.order), len(es.relationships))
	return es, nil
}

// readEntity reconstructs one entity and registers it. With a root path the
// backing data file is loaded; without one an empty frame matching the
// declared schema is synthesized.
func readEntity(ctx context.Context, es *EntitySet, desc *manifest.EntityDescription, root string, params map[string]any) error {
	var fr *frame.Frame
	var err error
	if root != "" {
		fr, err = readEntityData(ctx, desc, root, params)
	} else {
		fr, err = emptyFrame(desc)
	}
	if err != nil {
		return err
	}

	types := make(map[string]vartype.Type, len(desc.Variables))
	interesting := make(map[string][]any)
	for _, vd := range desc.Variables {
		t, err := variableType(vd)
		if err != nil {
			return fmt.Errorf("entity %q: %w", desc.ID, err)
		}
		types[vd.ID] = t
		if len(vd.Properties.InterestingValues) > 0 {
			interesting[vd.ID] = vd.Properties.InterestingValues
		}
	}

	_, err = es.AddEntity(desc.ID, fr, EntityConfig{
		Index:              desc.Index,
		TimeIndex:          desc.TimeIndex,
		SecondaryTimeIndex: desc.Properties.SecondaryTimeIndex,
		VariableTypes:      types,
		InterestingValues:  interesting,
	})
	return err
}

// variableType resolves a variable description's type tag. Unrecognized
// tags resolve to vartype.Unknown.
func variableType(vd manifest.VariableDescription) (vartype.Type, error) {
	return vartype.FromSpec(vd.Type.Value, vd.Type.Args)
}

// emptyFrame synthesizes a zero-row frame matching the entity's declared
// columns and dtypes, for schema-only reconstruction without data files.
func emptyFrame(desc *manifest.EntityDescription) (*frame.Frame, error) {
	names := make([]string, len(desc.Variables))
	for i, vd := range desc.Variables {
		names[i] = vd.ID
	}
	return frame.Empty(names, desc.LoadingInfo.Properties.Dtypes)
}

// readEntityData loads one entity's backing data file, applies the declared
// dtypes and decodes coordinate columns stored in text form.
func readEntityData(ctx context.Context, desc *manifest.EntityDescription, root string, params map[string]any) (*frame.Frame, error) {
	path := filepath.Join(root, filepath.FromSlash(desc.LoadingInfo.Location))

	var fr *frame.Frame
	var err error
	switch format := desc.LoadingInfo.Type; format {
	case "csv":
		fr, err = frame.ReadCSV(path, frame.CSVOptions{
			Compression: stringParam(params, "compression"),
			Encoding:    stringParam(params, "encoding"),
		})
	case "parquet":
		fr, err = frame.ReadParquet(ctx, path)
	case "pickle":
		fr, err = frame.ReadPickle(path)
	default:
		return nil, &UnsupportedFormatError{Format: format}
	}
	if err != nil {
		return nil, err
	}

	if err := fr.Cast(desc.LoadingInfo.Properties.Dtypes); err != nil {
		return nil, err
	}

	// csv and parquet store coordinate pairs in their text form; pickle
	// stores them natively.
	if format := desc.LoadingInfo.Type; format == "csv" || format == "parquet" {
		for _, vd := range desc.Variables {
			if vd.Type.Value != vartype.LatLongString {
				continue
			}
			err := fr.Apply(vd.ID, func(v any) (any, error) {
				if v == nil {
					return nil, nil
				}
				s, ok := v.(string)
				if !ok {
					return nil, fmt.Errorf("expected latlong text, got %T", v)
				}
				return frame.ParseLatLong(s)
			})
			if err != nil {
				return nil, err
			}
		}
	}
	return fr, nil
}

// mergeParams overlays caller-supplied load parameters onto the entity's
// declared ones; caller values win.
func mergeParams(declared, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return declared
	}
	merged := make(map[string]any, len(declared)+len(extra))
	for k, v := range declared {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
