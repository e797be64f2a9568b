package cmd

import (
	"os"

	"github.com/apex/log"
	iterm2img "github.com/blacktop/go-iterm2img"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	widthValue          float64
	widthUnit           string
	heightValue         float64
	heightUnit          string
	preserveAspectRatio bool
	detectSize          bool
	noRetina            bool
	resizeWidth         uint
	resizeHeight        uint
	outputFormat        string
)

func init() {
	cfg := loadConfig()
	displayCmd.Flags().Float64Var(&widthValue, "width", 0, "Width value")
	displayCmd.Flags().StringVar(&widthUnit, "width-unit", cfg.WidthUnit, "Width unit (cells|px|percent|auto)")
	displayCmd.Flags().Float64Var(&heightValue, "height", 0, "Height value")
	displayCmd.Flags().StringVar(&heightUnit, "height-unit", cfg.HeightUnit, "Height unit (cells|px|percent|auto)")
	displayCmd.Flags().BoolVar(&preserveAspectRatio, "preserve-aspect-ratio", cfg.PreserveAspectRatio, "Preserve the image aspect ratio")
	displayCmd.Flags().BoolVar(&detectSize, "detect-size", false, "Send the image's true pixel size explicitly")
	displayCmd.Flags().BoolVar(&noRetina, "no-retina", false, "Do not halve detected pixel sizes for double-density displays")
	displayCmd.Flags().UintVar(&resizeWidth, "resize-width", 0, "Resample to this pixel width before sending")
	displayCmd.Flags().UintVar(&resizeHeight, "resize-height", 0, "Resample to this pixel height before sending")
	displayCmd.Flags().StringVar(&outputFormat, "format", cfg.Format, "Re-encode container when resampling (png|jpeg)")
	rootCmd.AddCommand(displayCmd)
}

var displayCmd = &cobra.Command{
	Use:   "display <image>",
	Short: "Display an image inline in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		esc, err := buildImagePayload(args[0])
		if err != nil {
			return err
		}

		esc.Width, err = buildDimension(widthValue, widthUnit)
		if err != nil {
			return err
		}
		esc.Height, err = buildDimension(heightValue, heightUnit)
		if err != nil {
			return err
		}
		esc.PreserveAspectRatio = preserveAspectRatio

		if detectSize {
			if err := esc.DetectSize(!noRetina); err != nil {
				return err
			}
		}

		log.Debugf("payload: %s (%s)", esc.Name, humanize.Bytes(uint64(esc.Size())))
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			log.Debug("stdout is not a terminal; writing the sequence anyway")
		}

		return esc.Print()
	},
}

// buildImagePayload reads the image as-is, or decodes and re-encodes it
// when a resample size was requested.
func buildImagePayload(path string) (*iterm2img.ImagePayload, error) {
	esc, err := iterm2img.OpenImage(path)
	if err != nil {
		return nil, err
	}
	if resizeWidth == 0 && resizeHeight == 0 {
		return esc, nil
	}

	img, err := esc.Decode()
	if err != nil {
		return nil, err
	}
	return iterm2img.FromImage(img,
		iterm2img.WithSourcePath(path),
		iterm2img.WithFormat(iterm2img.Format(outputFormat)),
		iterm2img.WithResample(resizeWidth, resizeHeight),
	)
}

// buildDimension maps CLI value/unit flags onto a Dimension.
func buildDimension(value float64, unit string) (iterm2img.Dimension, error) {
	u, err := iterm2img.ParseUnit(unit)
	if err != nil {
		return iterm2img.Dimension{}, err
	}
	return iterm2img.Dimension{Value: value, Unit: u}, nil
}
