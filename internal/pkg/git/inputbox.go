package git

import (
	"os"
	"strings"
	"sync"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

// InputBox holds the commit message being drafted for a repository.
type InputBox interface {
	Value() string
	SetValue(value string) error
}

// MemoryBox is an in-process InputBox.
type MemoryBox struct {
	mu    sync.Mutex
	value string
}

// NewMemoryBox creates a MemoryBox holding initial.
func NewMemoryBox(initial string) *MemoryBox {
	return &MemoryBox{value: initial}
}

// Value returns the current message.
func (b *MemoryBox) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// SetValue replaces the message.
func (b *MemoryBox) SetValue(value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = value
	return nil
}

// scissorsMarker starts the section git appends for "git commit -v".
const scissorsMarker = "# ------------------------ >8 ------------------------"

// FileBox is an InputBox backed by a commit message file, such as the one
// git hands to the prepare-commit-msg hook. Comment lines and the verbose
// diff section below the scissors line are kept when the message changes.
type FileBox struct {
	path string
}

// NewFileBox creates a FileBox for path. The file need not exist yet.
func NewFileBox(path string) *FileBox {
	return &FileBox{path: path}
}

// Path returns the backing file.
func (b *FileBox) Path() string {
	return b.path
}

// Value returns the message part of the file, without comments.
func (b *FileBox) Value() string {
	data, err := os.ReadFile(b.path)
	if err != nil {
		return ""
	}
	message, _ := splitMessageFile(string(data))
	return message
}

// SetValue writes value as the message, followed by the file's existing
// comment section.
func (b *FileBox) SetValue(value string) error {
	data, err := os.ReadFile(b.path)
	if err != nil && !os.IsNotExist(err) {
		return apperrors.NewFileSystemError(err, b.path)
	}
	_, trailer := splitMessageFile(string(data))

	var sb strings.Builder
	sb.WriteString(strings.TrimRight(value, "\n"))
	sb.WriteString("\n")
	if trailer != "" {
		sb.WriteString("\n")
		sb.WriteString(trailer)
	}

	if err := os.WriteFile(b.path, []byte(sb.String()), 0644); err != nil {
		return apperrors.NewFileSystemError(err, b.path)
	}
	return nil
}

// splitMessageFile separates the editable message from the trailer: every
// '#' comment line plus everything from the scissors line onward.
func splitMessageFile(content string) (message, trailer string) {
	var msgLines, trailerLines []string
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		if line == scissorsMarker {
			trailerLines = append(trailerLines, lines[i:]...)
			break
		}
		if strings.HasPrefix(line, "#") {
			trailerLines = append(trailerLines, line)
			continue
		}
		msgLines = append(msgLines, line)
	}

	message = strings.TrimSpace(strings.Join(msgLines, "\n"))
	trailer = strings.Join(trailerLines, "\n")
	if trailer != "" && !strings.HasSuffix(trailer, "\n") {
		trailer += "\n"
	}
	return message, trailer
}
