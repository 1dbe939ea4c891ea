package directory

import "context"

// StaticReader serves a fixed snapshot. Used in tests and local demos
// where no database is available.
type StaticReader struct {
	doctors []Doctor
}

func NewStaticReader(doctors []Doctor) *StaticReader {
	return &StaticReader{doctors: doctors}
}

func (s *StaticReader) ListActiveDoctors(ctx context.Context) ([]Doctor, error) {
	out := make([]Doctor, len(s.doctors))
	copy(out, s.doctors)
	return out, nil
}
