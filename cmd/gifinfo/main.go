// Command gifinfo prints the frame layout and timing of a GIF file.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	gif89 "github.com/deepteams/gif89"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "gifinfo <file.gif>",
		Short:        "gifinfo - inspect a GIF89a file's frames and timing",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         runInfo,
	}
	return cmd
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	img, err := gif89.NewRandomAccess(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	fmt.Printf("canvas: %dx%d\n", img.CanvasWidth(), img.CanvasHeight())
	fmt.Printf("frames: %d\n", img.FrameCount())
	fmt.Printf("total duration: %.2fs\n\n", img.TotalDuration())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tDELAY\tDISPOSAL\tBYTES")
	for i := 0; i < img.FrameCount(); i++ {
		fmt.Fprintf(w, "%d\t%.2fs\t%s\t%d\n", i, img.Delay(i), disposalName(img.Disposal(i)), len(img.Frame(i)))
	}
	return w.Flush()
}

func disposalName(d int) string {
	switch d {
	case gif89.DisposalNone:
		return "none"
	case gif89.DisposalKeep:
		return "keep"
	case gif89.DisposalClearToBackground:
		return "clear-to-background"
	default:
		return "unknown"
	}
}
