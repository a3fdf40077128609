package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	tinyfs "github.com/alepiere/TinyFS"
)

func fsckCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("fsck requires a path argument")
	}

	vol, err := tinyfs.Mount(path)
	if err != nil {
		return err
	}
	defer vol.Unmount()

	if err := vol.Fsck(); err != nil {
		fmt.Println(err)
		return fmt.Errorf("fsck found problems")
	}
	fmt.Println("ok")
	return nil
}
