// Command fat12nav is the command-line front end for the fat12nav module.
// It selects which report to print; all FAT12 decoding lives in the
// library packages.
package main

import (
	"errors"
	"fmt"
	"os"

	fat12nav "github.com/relvacode/fat12nav"
	"github.com/relvacode/fat12nav/errs"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Usage: "Inspect FAT12 floppy disk images",
		Commands: []*cli.Command{
			{
				Name:      "summary",
				Usage:     "Print the geometry and volume summary for an image",
				ArgsUsage: "IMAGE",
				Action:    runSummary,
			},
			{
				Name:      "list",
				Usage:     "Print a recursive listing of every file in an image",
				ArgsUsage: "IMAGE",
				Action:    runList,
			},
			{
				Name:      "tree",
				Usage:     "Print only the directory structure of an image",
				ArgsUsage: "IMAGE",
				Action:    runTree,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errs.UsageError) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func openImageArg(c *cli.Context) (*fat12nav.Image, error) {
	path := c.Args().First()
	if path == "" {
		return nil, errs.UsageError.WithMessage("usage: fat12nav <command> IMAGE")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.OpenFailed.WrapError(err)
	}

	return fat12nav.Open(data)
}

func runSummary(c *cli.Context) error {
	img, err := openImageArg(c)
	if err != nil {
		return err
	}

	summary, err := img.BuildSummary()
	if err != nil {
		return err
	}

	fmt.Print(summary.String())
	return nil
}

func runList(c *cli.Context) error {
	img, err := openImageArg(c)
	if err != nil {
		return err
	}

	listing, err := img.BuildListing()
	if err != nil {
		return err
	}

	fmt.Print(listing)
	return nil
}

func runTree(c *cli.Context) error {
	img, err := openImageArg(c)
	if err != nil {
		return err
	}

	tree, err := img.BuildTree()
	if err != nil {
		return err
	}

	fmt.Print(tree)
	return nil
}
