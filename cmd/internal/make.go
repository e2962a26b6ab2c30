package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/gen2brain/beeep"
	archiver "github.com/mholt/archiver/v3"
	. "github.com/storozhukBM/build"
)

const coverageName = `coverage.out`
const cliName = `points2d`
const binDirName = `bin`
const linterName = `golangci-lint`
const linterVersion = `v1.55.2`

var parallelism = strconv.Itoa(runtime.NumCPU() * 4)

var b = NewBuild(BuildOptions{})
var commands = []Command{
	{`build`, func() {
		b.Run(Go, `build`, `./...`)
		b.Run(Go, `build`, `-o`, filepath.Join(binDirName, cliName), `./cmd/points2d`)
	}},

	{`buildInlineBounds`, b.ShRunCmd(
		Go, `build`, `-gcflags='-m -d=ssa/check_bce/debug=1'`, `./...`,
	)},

	{`clean`, clean},
	{`cleanAll`, func() { clean(); cleanExecutables() }},
	{`testArena`, notifyWhenDone(`testArena`, testArena)},
	{`testSequence`, notifyWhenDone(`testSequence`, testSequence)},
	{`test`, notifyWhenDone(`test`, func() { testArena(); testSequence() })},

	{`lint`, cilint},

	{`coverage`, func() {
		clean()
		b.Run(
			Go, `test`, `-coverpkg=./...`, `-coverprofile=`+coverageName,
			`./...`,
		)
		b.Run(Go, `tool`, `cover`, `-html=`+coverageName)
	}},
}

func testArena() {
	defer forceClean()
	b.Run(Go, `test`, `-parallel`, parallelism, `./lib/...`)
}

func testSequence() {
	defer forceClean()
	b.Run(Go, `test`, `-race`, `-parallel`, parallelism, `.`, `./cmd/...`)
	b.Run(Go, `run`, `./example`)
}

func clean() {
	b.Once(`cleanOnce`, func() { forceClean() })
}

func forceClean() {
	b.Run(Go, `clean`, `./...`)
	b.Run(`rm`, `-f`, coverageName)
	b.Run(`rm`, `-f`, `./example/example`)
	// sh run used to expand wildcard
	b.ForceShRun(`rm`, `-f`, `./`+cliName+`*`)
}

func cleanExecutables() {
	b.Run(`rm`, `-rf`, binDirName)
}

// notifyWhenDone shows a desktop notification once a long running target is finished.
func notifyWhenDone(name string, target func()) func() {
	return func() {
		start := time.Now()
		target()
		msg := fmt.Sprintf("%s finished in %v", name, time.Since(start).Round(time.Millisecond))
		if notifyErr := beeep.Notify(cliName, msg, ""); notifyErr != nil {
			fmt.Printf("can't show notification: %v\n", notifyErr)
		}
	}
}

func cilint() {
	executable := linterExecutablePath()
	if _, err := os.Stat(executable); os.IsNotExist(err) {
		archivePath, downloadErr := downloadLinter()
		if downloadErr != nil {
			b.AddError(downloadErr)
			return
		}
		unpackErr := archiver.Unarchive(archivePath, binDirName)
		if unpackErr != nil {
			b.AddError(fmt.Errorf("can't decompress file. File: %v; Error: %v", archivePath, unpackErr))
			return
		}
		if _, statErr := os.Stat(executable); statErr != nil {
			b.AddError(fmt.Errorf("linter executable isn't found after unpacking: %v", statErr))
			return
		}
	}

	b.Run(executable, `run`, `--concurrency`, parallelism)
}

func linterExecutablePath() string {
	executableFileName := linterName
	if runtime.GOOS == "windows" {
		executableFileName += ".exe"
	}
	return filepath.Join(binDirName, linterReleaseName(), executableFileName)
}

func downloadLinter() (string, error) {
	archiveType := "tar.gz"
	if runtime.GOOS == "windows" {
		archiveType = "zip"
	}
	downloadUrl := fmt.Sprintf(
		"https://github.com/golangci/golangci-lint/releases/download/%s/%s.%s",
		linterVersion, linterReleaseName(), archiveType,
	)
	fmt.Printf("Going to download linter: %s\n", downloadUrl)

	resp, getErr := http.Get(downloadUrl)
	if getErr != nil {
		return "", fmt.Errorf("can't get linter. URL: `%v`; Error: %v", downloadUrl, getErr)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("can't get linter. URL: `%v`; Code: %v", downloadUrl, resp.Status)
	}

	destFile, tempFileErr := os.CreateTemp("", "*."+archiveType)
	if tempFileErr != nil {
		return "", fmt.Errorf("can't store linter. URL: `%v`; Error: %v", downloadUrl, tempFileErr)
	}
	defer destFile.Close()

	if _, copyErr := io.Copy(destFile, resp.Body); copyErr != nil {
		return "", fmt.Errorf("can't download linter. URL: `%v`; Error: %v", downloadUrl, copyErr)
	}
	return destFile.Name(), nil
}

// linterReleaseName is also the name of the directory inside the release archive.
func linterReleaseName() string {
	return fmt.Sprintf("golangci-lint-%s-%s-%s", linterVersion[1:], runtime.GOOS, runtime.GOARCH)
}

func main() {
	b.Register(commands)
	b.BuildFromOsArgs()
}
