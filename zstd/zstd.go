// Package zstd provides utilities for connecting to external zStandard
// compression tasks.
package zstd

import (
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
)

// Hooks for testing.
var (
	osPipe      = os.Pipe
	zstdCommand = "zstd"
)

// NewReader creates a reader piped to an external zstd process decompressing
// filename.  Close the returned pipe when done.
func NewReader(filename string) (io.ReadCloser, error) {
	// Surface missing files here rather than as a confusing zstd exit code.
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	f.Close()

	pipeR, pipeW, err := osPipe()
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(zstdCommand, "-d", "-c", filename)
	cmd.Stdout = pipeW

	go func() {
		err := cmd.Run()
		if err != nil {
			log.Println("ZSTD error", filename, err)
		}
		pipeW.Close()
	}()

	return pipeR, nil
}

type waitingWriteCloser struct {
	io.WriteCloser
	wg *sync.WaitGroup
}

func (w waitingWriteCloser) Close() error {
	err := w.WriteCloser.Close()
	if err != nil {
		return err
	}
	w.wg.Wait()
	return nil
}

// NewWriter creates a writer piped to an external zstd process compressing
// into filename.  Close the returned pipe when done; Close waits for the
// external process to finish.
func NewWriter(filename string) (io.WriteCloser, error) {
	var wg sync.WaitGroup
	wg.Add(1)
	pipeR, pipeW, err := osPipe()
	if err != nil {
		return nil, err
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	cmd := exec.Command(zstdCommand)
	cmd.Stdin = pipeR
	cmd.Stdout = f

	go func() {
		err := cmd.Run()
		if err != nil {
			log.Println("ZSTD error", filename, err)
		}
		pipeR.Close()
		f.Close()
		wg.Done()
	}()

	return waitingWriteCloser{pipeW, &wg}, nil
}
