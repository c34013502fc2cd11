// Package bundle persists a generated program: a project directory
// holding the main program and its numbered subroutine files, plus an
// optional zip archive of the whole set for transfer to the controller.
package bundle

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/spindleworks/millpath/pkg/gcode"
)

// Writer writes program bundles through an abstract storage service,
// so destinations can be local paths or any scheme afs understands.
type Writer struct {
	fs afs.Service
}

// New returns a Writer backed by the default storage service.
func New() *Writer {
	return &Writer{fs: afs.New()}
}

// Manifest lists everything a Write produced.
type Manifest struct {
	DirURL         string
	MainURL        string
	SubroutineURLs map[int]string
	ArchiveURL     string
}

const (
	fileMode     = 0o644
	mainFileName = "main.tap"
)

// Write stores the program under baseURL/<project>/: the main file as
// main.tap and each subroutine as <number>.nc, matching the layout the
// controller's M98 paths expect. With archive set, a <project>.zip
// holding the same files is written next to the directory.
func (w *Writer) Write(ctx context.Context, baseURL string, res *gcode.Result, archive bool) (*Manifest, error) {
	if res == nil {
		return nil, fmt.Errorf("bundle: nil generation result")
	}

	dirURL := url.Join(baseURL, res.ProjectName)
	manifest := &Manifest{
		DirURL:         dirURL,
		MainURL:        url.Join(dirURL, mainFileName),
		SubroutineURLs: make(map[int]string),
	}

	if err := w.fs.Upload(ctx, manifest.MainURL, fileMode, bytes.NewReader([]byte(res.Main))); err != nil {
		return nil, fmt.Errorf("bundle: write main program: %w", err)
	}

	for _, num := range sortedNumbers(res.Subroutines) {
		subURL := url.Join(dirURL, fmt.Sprintf("%d.nc", num))
		if err := w.fs.Upload(ctx, subURL, fileMode, bytes.NewReader([]byte(res.Subroutines[num]))); err != nil {
			return nil, fmt.Errorf("bundle: write subroutine %d: %w", num, err)
		}
		manifest.SubroutineURLs[num] = subURL
	}

	if archive {
		archiveURL := url.Join(baseURL, res.ProjectName+".zip")
		data, err := zipProgram(res)
		if err != nil {
			return nil, err
		}
		if err := w.fs.Upload(ctx, archiveURL, fileMode, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("bundle: write archive: %w", err)
		}
		manifest.ArchiveURL = archiveURL
	}

	return manifest, nil
}

// zipProgram packs the main program and subroutines into one zip, main
// first, subroutines in numeric order.
func zipProgram(res *gcode.Result) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	add := func(name, content string) error {
		f, err := zw.Create(name)
		if err != nil {
			return err
		}
		_, err = f.Write([]byte(content))
		return err
	}

	if err := add(mainFileName, res.Main); err != nil {
		return nil, fmt.Errorf("bundle: archive main program: %w", err)
	}
	for _, num := range sortedNumbers(res.Subroutines) {
		if err := add(fmt.Sprintf("%d.nc", num), res.Subroutines[num]); err != nil {
			return nil, fmt.Errorf("bundle: archive subroutine %d: %w", num, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("bundle: finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedNumbers(subs map[int]string) []int {
	nums := make([]int, 0, len(subs))
	for n := range subs {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
