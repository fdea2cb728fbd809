package convert

import "github.com/Deep-In-Sight/ply2lcc/splat"

func openEnvironment(path string) (*splat.Buffer, error) {
	return splat.Open(path)
}
