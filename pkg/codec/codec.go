// Package codec defines the texture decoder/encoder collaborator used by the
// conversion pipeline, and the file formats it can produce.
//
// The real implementation is the crnlib binding in package crnlib. This
// package only carries the contract and signature helpers so the pipeline
// can be exercised without cgo.
package codec

// EncodeOptions controls how a decoded texture is written.
type EncodeOptions struct {
	Format Format

	// BaseLevel is the first mip level written to the output.
	BaseLevel int

	// Direct writes the decoded levels as-is starting at BaseLevel instead of
	// running the full conversion pipeline. Reassembled containers use it.
	Direct bool
}

// Texture is a decoded, mipmapped texture.
type Texture interface {
	// Levels returns the number of mip levels.
	Levels() int

	// Encode writes the texture in the requested format.
	Encode(opts EncodeOptions) ([]byte, error)

	// Close releases codec-side resources.
	Close() error
}

// Codec decodes complete CRN containers.
type Codec interface {
	Decode(data []byte) (Texture, error)
}

// Func adapts a plain function to Codec.
type Func func(data []byte) (Texture, error)

// Decode calls f.
func (f Func) Decode(data []byte) (Texture, error) {
	return f(data)
}
