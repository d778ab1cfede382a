// Package git provides the repository operations commitollama needs: listing
// staged changes, reading per-file diffs, and committing.
package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

const (
	// GitCommandTimeout is the default timeout for read-only git commands.
	GitCommandTimeout = 10 * time.Second
	// CommitTimeout leaves room for commit hooks.
	CommitTimeout = 2 * time.Minute
)

// ChangeStatus is the kind of change recorded for a staged path.
type ChangeStatus int

const (
	StatusModified ChangeStatus = iota
	StatusAdded
	StatusDeleted
	StatusRenamed
	StatusCopied
	StatusTypeChanged
)

// String returns the string representation of ChangeStatus.
func (s ChangeStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	case StatusRenamed:
		return "renamed"
	case StatusCopied:
		return "copied"
	case StatusTypeChanged:
		return "type-changed"
	default:
		return "unknown"
	}
}

// Change is one staged path.
type Change struct {
	Path      string
	OldPath   string // set for renames and copies
	Status    ChangeStatus
	Additions int
	Deletions int
	IsBinary  bool
}

// Repository is the collaborator the commit flow works against.
type Repository interface {
	// Root returns the top-level directory of the working tree.
	Root() string
	// StagedChanges lists the staged changes in git's order.
	StagedChanges(ctx context.Context) ([]Change, error)
	// FileDiff returns the staged diff text of a single change.
	FileDiff(ctx context.Context, change Change) (string, error)
	// InputBox is where the drafted message is placed.
	InputBox() InputBox
	// Commit records the staged changes with message.
	Commit(ctx context.Context, message string) error
	// AddAll stages every change in the working tree.
	AddAll(ctx context.Context) error
}

// LocalRepository implements Repository by running the git binary.
type LocalRepository struct {
	root string
	box  InputBox
}

// Open resolves the repository containing dir. The box receives the drafted
// message; a nil box gets a fresh MemoryBox.
func Open(ctx context.Context, dir string, box InputBox) (*LocalRepository, error) {
	if box == nil {
		box = NewMemoryBox("")
	}
	out, err := run(ctx, dir, GitCommandTimeout, "", "rev-parse", "--show-toplevel")
	if err != nil {
		return nil, err
	}
	return &LocalRepository{
		root: strings.TrimSpace(string(out)),
		box:  box,
	}, nil
}

// Root returns the top-level directory of the working tree.
func (r *LocalRepository) Root() string {
	return r.root
}

// InputBox returns the box the drafted message is written to.
func (r *LocalRepository) InputBox() InputBox {
	return r.box
}

// StagedChanges combines --name-status and --numstat output for the index.
func (r *LocalRepository) StagedChanges(ctx context.Context) ([]Change, error) {
	nameStatus, err := r.git(ctx, "diff", "--cached", "-M", "--name-status")
	if err != nil {
		return nil, err
	}
	numstat, err := r.git(ctx, "diff", "--cached", "-M", "--numstat")
	if err != nil {
		return nil, err
	}

	changes := parseNameStatus(nameStatus)
	stats := parseNumstat(numstat)
	for i := range changes {
		if stat, ok := stats[changes[i].Path]; ok {
			changes[i].Additions = stat.additions
			changes[i].Deletions = stat.deletions
			changes[i].IsBinary = stat.isBinary
		}
	}
	return changes, nil
}

// FileDiff returns the staged diff of change. Renames include the old path
// so git can pair both sides.
func (r *LocalRepository) FileDiff(ctx context.Context, change Change) (string, error) {
	args := []string{"diff", "--cached", "-M", "--"}
	if change.OldPath != "" && change.Status == StatusRenamed {
		args = append(args, change.OldPath)
	}
	args = append(args, change.Path)

	out, err := r.git(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Commit records the staged changes, reading the message from stdin so
// multi-line messages survive untouched.
func (r *LocalRepository) Commit(ctx context.Context, message string) error {
	_, err := run(ctx, r.root, CommitTimeout, message, "commit", "-F", "-")
	return err
}

// AddAll stages every change, including deletions and untracked files.
func (r *LocalRepository) AddAll(ctx context.Context) error {
	_, err := r.git(ctx, "add", "-A")
	return err
}

func (r *LocalRepository) git(ctx context.Context, args ...string) ([]byte, error) {
	return run(ctx, r.root, GitCommandTimeout, "", args...)
}

// run executes git in dir. Paths are printed unquoted so non-ASCII names
// match the working tree.
func run(ctx context.Context, dir string, timeout time.Duration, stdin string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", append([]string{"-c", "core.quotePath=false"}, args...)...)
	cmd.Dir = dir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperrors.NewGitError(ctx.Err(), "git "+args[0]+" timed out")
		}
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return nil, apperrors.NewGitError(err, output)
	}
	return stdout.Bytes(), nil
}

// parseNameStatus parses git diff --name-status output.
// Format: STATUS<TAB>path, or STATUS<SCORE><TAB>old<TAB>new for R and C.
func parseNameStatus(output []byte) []Change {
	var changes []Change
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\t")
		if len(parts) < 2 || parts[0] == "" {
			continue
		}

		change := Change{Path: parts[len(parts)-1]}
		switch parts[0][0] {
		case 'A':
			change.Status = StatusAdded
		case 'D':
			change.Status = StatusDeleted
		case 'R':
			change.Status = StatusRenamed
		case 'C':
			change.Status = StatusCopied
		case 'T':
			change.Status = StatusTypeChanged
		default:
			change.Status = StatusModified
		}
		if (change.Status == StatusRenamed || change.Status == StatusCopied) && len(parts) >= 3 {
			change.OldPath = parts[1]
		}
		changes = append(changes, change)
	}
	return changes
}

// fileStat holds statistics for a single file from numstat.
type fileStat struct {
	additions int
	deletions int
	isBinary  bool
}

// parseNumstat parses the output of git diff --numstat.
// Format: additions<TAB>deletions<TAB>filepath
// Binary files show as: -<TAB>-<TAB>filepath
func parseNumstat(output []byte) map[string]fileStat {
	stats := make(map[string]fileStat)
	scanner := bufio.NewScanner(bytes.NewReader(output))

	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), "\t", 3)
		if len(parts) < 3 {
			continue
		}

		addStr, delStr, filePath := parts[0], parts[1], parts[2]
		if strings.Contains(filePath, " => ") {
			filePath = extractNewPath(filePath)
		}

		stat := fileStat{}
		if addStr == "-" && delStr == "-" {
			stat.isBinary = true
		} else {
			stat.additions, _ = strconv.Atoi(addStr)
			stat.deletions, _ = strconv.Atoi(delStr)
		}
		stats[filePath] = stat
	}
	return stats
}

var braceRenameRegex = regexp.MustCompile(`\{([^}]*) => ([^}]*)\}`)

// extractNewPath extracts the new file path from git rename notation.
// Examples:
//   - "old.txt => new.txt" -> "new.txt"
//   - "{old => new}/file.txt" -> "new/file.txt"
//   - "dir/{old.txt => new.txt}" -> "dir/new.txt"
//   - "dir/{ => sub}/file.txt" -> "dir/sub/file.txt"
func extractNewPath(renamePath string) string {
	if !strings.Contains(renamePath, "{") {
		if parts := strings.SplitN(renamePath, " => ", 2); len(parts) == 2 {
			return strings.TrimSpace(parts[1])
		}
		return renamePath
	}
	result := braceRenameRegex.ReplaceAllString(renamePath, "$2")
	return strings.TrimPrefix(strings.ReplaceAll(result, "//", "/"), "/")
}
