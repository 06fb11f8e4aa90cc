// Command yafaray-go is the command-line driver for the renderer: a
// render subcommand that loads a scene description, runs the tiled
// driver, and writes a PNG, and a photonmap subcommand that inspects or
// merges saved photon-map files. Grounded on the cobra root+leaf
// layout of CWBudde-MayFlyCircleFit/cmd and ja7ad-consumption/cmd.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
