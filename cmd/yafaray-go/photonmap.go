package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/yafaray-go/yafaray/pkg/core"
	"github.com/yafaray-go/yafaray/pkg/photon"
)

var photonMapCmd = &cobra.Command{
	Use:   "photonmap",
	Short: "Inspect or merge saved photon-map files",
}

var photonMapInspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Print the photon count, path count, and bounding box of a saved map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := photon.New("inspect", 1)
		if err := m.Load(args[0]); err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		photons := m.Photons()
		fmt.Printf("%s: %d photons across %d paths\n", args[0], m.NPhotons(), m.NPaths())
		if len(photons) == 0 {
			return nil
		}
		minP, maxP := photons[0].Pos, photons[0].Pos
		for _, p := range photons[1:] {
			minP = componentMin(minP, p.Pos)
			maxP = componentMax(maxP, p.Pos)
		}
		fmt.Printf("bounds: min=(%.3f, %.3f, %.3f) max=(%.3f, %.3f, %.3f)\n",
			minP.X, minP.Y, minP.Z, maxP.X, maxP.Y, maxP.Z)
		return nil
	},
}

var photonMapMergeCmd = &cobra.Command{
	Use:   "merge <out> <in...>",
	Short: "Merge several saved photon maps into one file",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, ins := args[0], args[1:]
		merged := photon.New("merged", 1)
		for _, path := range ins {
			m := photon.New("part", 1)
			if err := m.Load(path); err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			merged.Append(m.Photons(), m.NPaths())
		}
		if err := merged.Save(out); err != nil {
			return fmt.Errorf("saving %s: %w", out, err)
		}
		fmt.Printf("wrote %s: %d photons across %d paths\n", out, merged.NPhotons(), merged.NPaths())
		return nil
	},
}

func init() {
	photonMapCmd.AddCommand(photonMapInspectCmd, photonMapMergeCmd)
	rootCmd.AddCommand(photonMapCmd)
}

func componentMin(a, b core.Vec3) core.Vec3 {
	return core.NewVec3(math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z))
}

func componentMax(a, b core.Vec3) core.Vec3 {
	return core.NewVec3(math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z))
}
