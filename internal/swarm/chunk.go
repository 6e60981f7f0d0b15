package swarm

// Chunk is a fixed-size segment of the source file, identified by its
// on-disk filename at the conventional chunk prefix. Chunks are immutable
// after creation; identity is by filename.
type Chunk struct {
	Name string
}

// Equal reports whether c and other name the same chunk.
func (c Chunk) Equal(other Chunk) bool {
	return c.Name == other.Name
}
