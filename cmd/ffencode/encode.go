package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/gfx"
	"github.com/xaionaro-go/ffencoder/settings"
	"github.com/xaionaro-go/ffencoder/types"
	"github.com/xaionaro-go/observability"
	"gopkg.in/yaml.v3"
)

type encodeParams struct {
	FactoryID    string
	SettingsPath string
	ImagePath    string
	BlurRadius   float64
	OutputPath   string
	Width        int
	Height       int
	FrameRate    string
	Frames       int
	Hardware     string
	ColorSpace   types.ColorSpace
	ColorRange   types.ColorRange
}

type encodeReport struct {
	Encoder    string                     `yaml:"encoder"`
	InputFmt   types.PixelFormat          `yaml:"input_format"`
	Lag        int                        `yaml:"lag"`
	Packets    int                        `yaml:"packets"`
	Bytes      string                     `yaml:"bytes"`
	ExtraData  int                        `yaml:"extradata_size"`
	SEI        int                        `yaml:"sei_size"`
	Statistics encoder.StatisticsSnapshot `yaml:"statistics"`
}

func newEncodeCommand() *cobra.Command {
	p := encodeParams{
		ColorSpace: types.ColorSpaceBT709,
		ColorRange: types.ColorRangePartial,
	}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode an image or a synthetic pattern into a raw elementary stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEncode(cmd.Context(), p)
		},
	}
	bindEncodeFlags(cmd.Flags(), &p)
	return cmd
}

func bindEncodeFlags(flags *pflag.FlagSet, p *encodeParams) {
	flags.StringVarP(&p.FactoryID, "encoder", "e", encoder.FactoryIDPrefix+"libx264", "factory id (or a legacy id) of the encoder")
	flags.StringVar(&p.SettingsPath, "settings", "", "YAML file with the encoder settings")
	flags.StringVarP(&p.ImagePath, "image", "i", "", "image to encode; a moving color bars pattern if empty")
	flags.Float64Var(&p.BlurRadius, "blur", 0, "gaussian blur radius applied to the image")
	flags.StringVarP(&p.OutputPath, "output", "o", "", "output file of the elementary stream; stdout if '-'")
	flags.IntVar(&p.Width, "width", 1280, "frame width")
	flags.IntVar(&p.Height, "height", 720, "frame height")
	flags.StringVar(&p.FrameRate, "fps", "30", "frame rate, e.g. 30 or 30000/1001 or 29.97")
	flags.IntVarP(&p.Frames, "frames", "n", 60, "amount of frames to encode")
	flags.StringVar(&p.Hardware, "hardware", "", "feed the frames as textures of this device type (e.g. cuda)")
	flags.Var(&p.ColorSpace, "color-space", "color space of the input")
	flags.Var(&p.ColorRange, "color-range", "color range of the input")
}

func runEncode(ctx context.Context, p encodeParams) error {
	f := encoder.Default().Factory(p.FactoryID)
	if f == nil {
		return fmt.Errorf("factory '%s' is not found", p.FactoryID)
	}
	frameRate, err := types.RationalFromString(p.FrameRate)
	if err != nil {
		return fmt.Errorf("invalid frame rate '%s': %w", p.FrameRate, err)
	}

	var s *settings.Settings
	if p.SettingsPath != "" {
		file, err := os.Open(p.SettingsPath)
		if err != nil {
			return fmt.Errorf("unable to open the settings: %w", err)
		}
		s, err = settings.Load(file)
		file.Close()
		if err != nil {
			return fmt.Errorf("unable to parse the settings: %w", err)
		}
	}

	var staticPicture *picture
	if p.ImagePath != "" {
		img, err := loadImage(p.ImagePath, p.Width, p.Height, p.BlurRadius)
		if err != nil {
			return err
		}
		staticPicture = newPictureNV12(img)
	}
	pictureAt := func(idx int) *picture {
		if staticPicture != nil {
			return staticPicture
		}
		return newPictureNV12(syntheticImage(p.Width, p.Height, idx))
	}

	out, closeOut, err := openOutput(p.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	params := encoder.InstanceParams{
		Settings: s,
		Video: encoder.VideoInfo{
			Width:      p.Width,
			Height:     p.Height,
			Format:     types.PixelFormatNV12,
			ColorSpace: p.ColorSpace,
			ColorRange: p.ColorRange,
			FrameRate:  *frameRate,
		},
	}
	var textures *textureSource
	if p.Hardware != "" {
		deviceType := types.HardwareDeviceTypeFromString(p.Hardware)
		if deviceType < 0 {
			return fmt.Errorf("unknown hardware device type '%s'", p.Hardware)
		}
		textures = &textureSource{}
		params.Hardware = true
		params.Graphics = gfx.NewDevice(deviceType, "", textures.Read)
	}

	report := encodeReport{Encoder: f.Info.ID}
	var written uint64
	writePacket := func(ctx context.Context, pkt *encoder.OutputPacket) error {
		report.Packets++
		written += uint64(len(pkt.Data))
		if _, err := out.Write(pkt.Data); err != nil {
			return fmt.Errorf("unable to write a packet: %w", err)
		}
		return nil
	}
	params.OnFlushedPacket = func(ctx context.Context, pkt *encoder.OutputPacket) {
		if err := writePacket(ctx, pkt); err != nil {
			logger.Error(ctx, err)
		}
	}

	inst, err := f.NewInstance(ctx, params)
	if err != nil {
		return fmt.Errorf("unable to create the encoder: %w", err)
	}
	report.InputFmt = inst.InputFormat()
	report.Lag = inst.Lag()

	errCh := make(chan error, 1)
	observability.Go(ctx, func(ctx context.Context) {
		errCh <- encodeFrames(ctx, inst, p.Frames, pictureAt, textures, writePacket)
	})
	err = <-errCh
	if err == nil {
		err = inst.Flush(ctx, writePacket)
	}
	if closeErr := inst.Close(ctx); closeErr != nil {
		logger.Errorf(ctx, "unable to close the encoder: %v", closeErr)
	}
	if err != nil {
		return err
	}

	report.Bytes = humanize.IBytes(written)
	if extraData, ok := inst.ExtraData(); ok {
		report.ExtraData = len(extraData)
	}
	if sei, ok := inst.SEI(); ok {
		report.SEI = len(sei)
	}
	report.Statistics = inst.Stats().Snapshot()
	enc := yaml.NewEncoder(os.Stderr)
	defer enc.Close()
	return enc.Encode(report)
}

func encodeFrames(
	ctx context.Context,
	inst *encoder.Instance,
	count int,
	pictureAt func(idx int) *picture,
	textures *textureSource,
	writePacket func(ctx context.Context, pkt *encoder.OutputPacket) error,
) error {
	var (
		pkt     encoder.OutputPacket
		lockKey uint64
	)
	for idx := 0; idx < count; idx++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		pic := pictureAt(idx)

		var (
			ok  bool
			err error
		)
		if textures != nil {
			textures.Put(pic)
			lockKey, ok, err = inst.EncodeTexture(ctx, uint64(idx), int64(idx), lockKey, &pkt)
		} else {
			ok, err = inst.EncodeVideo(ctx, &encoder.VideoFrame{
				Planes:  pic.Planes,
				Strides: pic.Strides,
				PTS:     int64(idx),
			}, &pkt)
		}
		if err != nil {
			return fmt.Errorf("unable to encode frame #%d: %w", idx, err)
		}
		if !ok {
			continue
		}
		if err := writePacket(ctx, &pkt); err != nil {
			return err
		}
	}
	return nil
}

// textureSource emulates a host sharing the current picture as a texture.
type textureSource struct {
	current *picture
}

func (s *textureSource) Put(pic *picture) {
	s.current = pic
}

func (s *textureSource) Read(ctx context.Context, handle uint64, lockKey uint64) (*gfx.Texture, uint64, error) {
	if s.current == nil {
		return nil, lockKey, fmt.Errorf("texture %d is not available", handle)
	}
	return &gfx.Texture{
		Width:   s.current.Width,
		Height:  s.current.Height,
		Format:  types.PixelFormatNV12,
		Planes:  s.current.Planes,
		Strides: s.current.Strides,
	}, lockKey + 1, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	switch path {
	case "":
		return io.Discard, func() {}, nil
	case "-":
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create '%s': %w", path, err)
	}
	return file, func() { file.Close() }, nil
}
