// Package entityset reconstructs persisted entity sets — collections of
// related tables plus relationship metadata — into an in-memory object graph.
//
// An entity set is persisted as a directory (or tar archive) holding a
// data_description.json manifest alongside per-table data files in csv,
// parquet or pickle format. ReadEntitySet is the read-side entry point; it
// accepts a local directory, an HTTP(S) URL or an s3:// URI:
//
//	ctx := context.Background()
//	es, _ := entityset.ReadEntitySet(ctx, "./retail")
//	es, _ := entityset.ReadEntitySet(ctx, "https://example.com/retail.tar.gz")
//	es, _ := entityset.ReadEntitySet(ctx, "s3://bucket/retail.tar", entityset.WithAnonymousAccess())
//
// Remote paths are staged into a scoped temporary directory, extracted and
// read like a local directory; the staging directory is removed on every
// exit path.
//
// WriteEntitySet is the matching write side:
//
//	_ = entityset.WriteEntitySet(ctx, es, "./retail", entityset.WithFormat("parquet"))
package entityset
