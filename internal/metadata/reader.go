// file: internal/metadata/reader.go
// version: 1.0.0
// guid: 5b0e9a47-2c1d-4f86-b3e8-7d4a61c02f95

package metadata

// RecordReader produces the tag record for one audio file. The scanner reads
// through it so a cache can sit in front of the tag parser.
type RecordReader interface {
	ReadRecord(path string) (AudioFileRecord, error)
}

// TagReader reads records straight from the file's tags.
type TagReader struct{}

func (TagReader) ReadRecord(path string) (AudioFileRecord, error) { return ReadAudioFile(path) }
