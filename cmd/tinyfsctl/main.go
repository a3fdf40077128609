// Command tinyfsctl drives a tinyFS image from the shell: format it,
// demo the basic file lifecycle against it, or check it for consistency.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/alepiere/TinyFS/presets"
)

func main() {
	app := cli.App{
		Usage: "Create and inspect tinyFS disk images",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "Create or wipe a tinyFS image",
				ArgsUsage: "PATH",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "bytes", Usage: "total image size in bytes"},
					&cli.StringFlag{Name: "preset", Usage: fmt.Sprintf("named size (%v)", presets.Slugs())},
				},
				Action: formatImage,
			},
			{
				Name:      "demo",
				Usage:     "Format, mount, open a file, and list the directory",
				ArgsUsage: "PATH",
				Action:    demo,
			},
			{
				Name:      "fsck",
				Usage:     "Mount and report every consistency violation found",
				ArgsUsage: "PATH",
				Action:    fsckCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("fatal error: %s", err.Error())
	}
}
