package convert

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/UnknownOlympus/themis/internal/models"
)

// ErrExecutableNotFound is returned when no office suite executable is available.
var ErrExecutableNotFound = fmt.Errorf("%w: office suite executable", models.ErrFileNotFound)

// Resolver locates the executable used for conversions.
type Resolver interface {
	Resolve() (string, error)
}

// CandidateResolver checks, in order: an explicitly configured path, the
// command on PATH, and the usual install locations of the platform.
type CandidateResolver struct {
	Configured string
	Command    string
	Candidates []string

	lookPath func(file string) (string, error)
}

// NewCandidateResolver returns a resolver for LibreOffice's soffice on the
// current platform. configured, when set, is the only path considered.
func NewCandidateResolver(configured string) *CandidateResolver {
	return &CandidateResolver{
		Configured: configured,
		Command:    "soffice",
		Candidates: DefaultCandidates(runtime.GOOS),
		lookPath:   exec.LookPath,
	}
}

// DefaultCandidates lists the install locations of LibreOffice and OpenOffice for goos.
func DefaultCandidates(goos string) []string {
	switch goos {
	case "darwin":
		return []string{
			"/Applications/LibreOffice.app/Contents/MacOS/soffice",
			"/Applications/OpenOffice.app/Contents/MacOS/soffice",
			"/usr/local/bin/soffice",
		}
	case "windows":
		return []string{
			`C:\Program Files\LibreOffice\program\soffice.exe`,
			`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
			`C:\Program Files\OpenOffice\program\soffice.exe`,
			`C:\Program Files (x86)\OpenOffice\program\soffice.exe`,
		}
	default:
		return []string{
			"/usr/bin/soffice",
			"/usr/local/bin/soffice",
			"/opt/libreoffice/program/soffice",
		}
	}
}

func (r *CandidateResolver) Resolve() (string, error) {
	if r.Configured != "" {
		if isExecutable(r.Configured) {
			return r.Configured, nil
		}
		return "", fmt.Errorf("%w: configured path %s is not an executable file", ErrExecutableNotFound, r.Configured)
	}

	if r.Command != "" && r.lookPath != nil {
		if path, err := r.lookPath(r.Command); err == nil {
			return path, nil
		}
	}

	for _, candidate := range r.Candidates {
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", ErrExecutableNotFound
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}

	return info.Mode().Perm()&0o111 != 0
}
