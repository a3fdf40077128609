package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	tinyfs "github.com/alepiere/TinyFS"
	"github.com/alepiere/TinyFS/presets"
)

func formatImage(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("format requires a path argument")
	}

	totalBytes := c.Int64("bytes")
	if slug := c.String("preset"); slug != "" {
		p, err := presets.GetPreset(slug)
		if err != nil {
			return err
		}
		totalBytes = p.TotalBytes
	}
	if totalBytes == 0 {
		totalBytes = tinyfs.DefaultDiskSize
	}

	if err := tinyfs.Format(tinyfs.FormatOptions{Path: path, TotalBytes: totalBytes}); err != nil {
		return err
	}
	fmt.Printf("formatted %s (%d bytes)\n", path, totalBytes)
	return nil
}
