package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	tinyfs "github.com/alepiere/TinyFS"
)

// demo formats a fresh image, mounts it, opens one file, and lists the
// directory, mirroring the original library's demo program.
func demo(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = tinyfs.DefaultDiskName
	}

	if err := tinyfs.Format(tinyfs.FormatOptions{Path: path, TotalBytes: tinyfs.DefaultDiskSize}); err != nil {
		return err
	}

	vol, err := tinyfs.Mount(path)
	if err != nil {
		return err
	}
	defer vol.Unmount()

	fmt.Println("opening testfile")
	fd, err := vol.Open("testfile")
	if err != nil {
		return err
	}
	fmt.Printf("file descriptor: %d\n", fd)

	names, err := vol.Readdir()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
