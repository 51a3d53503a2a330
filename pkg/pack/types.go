package pack

// FileDescriptor identifies one file that survived discovery. Descriptors
// are created during the collection walk and never mutated afterwards; the
// pipeline stages share them read-only.
type FileDescriptor struct {
	Path      string // Absolute path on disk.
	Rel       string // Slash-separated path relative to the scan root.
	Priority  int    // Rule score plus recency boost.
	Boost     int    // Recency boost alone, kept as the sort tiebreak.
	FileIndex int    // Discovery order, assigned once during the walk.
}

// FileChunk is one piece of file content on its way to the aggregator:
// either a whole file (PartIndex 0) or one maxSize-bounded slice of it.
type FileChunk struct {
	Priority  int
	FileIndex int
	PartIndex int
	RelPath   string // Display path; parts beyond the first carry a :partN suffix.
	Content   string
}

// Sizer measures a formatted chunk against the size budget. The default
// counts bytes; tests and token-based callers substitute their own.
type Sizer func(formatted string) int

// ByteSizer is the default Sizer.
func ByteSizer(formatted string) int {
	return len(formatted)
}
