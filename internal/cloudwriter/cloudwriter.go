// Package cloudwriter abstracts object-store uploads for quote event files,
// so parquet partitions can land in a bucket instead of the local disk.
package cloudwriter

// CloudWriter buffers writes for a single object and uploads on Close.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
}

type CloudWriterFactory interface {
	NewWriter(bucket, objectPath string) (CloudWriter, error)
}
