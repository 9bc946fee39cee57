package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"mnistview/pkg/aggregate"
	"mnistview/pkg/config"
	"mnistview/pkg/idx"
	"mnistview/pkg/render"
	"mnistview/pkg/stats"
	"mnistview/pkg/visualization"
)

// viewer runs one decode-and-display pass
type viewer struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	out    *render.Renderer
}

func (v *viewer) run(labelsPath, imagesPath string) error {
	labels, err := idx.DecodeLabels(labelsPath)
	if err != nil {
		return fmt.Errorf("reading labels: %w", err)
	}
	images, err := idx.DecodeImages(imagesPath)
	if err != nil {
		return fmt.Errorf("reading images: %w", err)
	}

	if err := v.out.Println(fmt.Sprintf("Getting %d labels, %d images", len(labels.Labels), len(images.Images))); err != nil {
		return err
	}
	if err := idx.CheckCounts(labels, images); err != nil {
		return err
	}

	v.warnIfTooWide(images.Columns)

	switch v.cfg.Display.Mode {
	case config.ModeRaw:
		return v.showRaw(labels, images)
	case config.ModeSummary:
		return v.showSummary(labels, images)
	default:
		return v.showAverages(labels, images)
	}
}

// showAverages draws one composite per label in ascending label order
func (v *viewer) showAverages(labels *idx.LabelFile, images *idx.ImageFile) error {
	composites, err := aggregate.ByLabel(labels.Labels, images.Images)
	if err != nil {
		return err
	}

	for _, c := range composites {
		if err := v.out.Header(fmt.Sprintf("Label: %d ------------------------------", c.Label)); err != nil {
			return err
		}
		if err := v.out.Println(""); err != nil {
			return err
		}
		if err := render.Grid(v.out, c.Sum, c.Intensity); err != nil {
			return err
		}
	}

	if v.cfg.Export.Dir == "" {
		return nil
	}
	paths, err := v.exporter().SaveComposites(composites)
	if err != nil {
		return err
	}
	v.logger.Info("exported composites", zap.String("dir", v.cfg.Export.Dir), zap.Int("files", len(paths)))
	return nil
}

// showRaw draws the first Display.Limit images as decoded
func (v *viewer) showRaw(labels *idx.LabelFile, images *idx.ImageFile) error {
	n := min(v.cfg.Display.Limit, len(images.Images))
	for i := 0; i < n; i++ {
		if err := v.out.Header(fmt.Sprintf("Image %d (label %d)", i, labels.Labels[i])); err != nil {
			return err
		}
		if err := render.Grid(v.out, images.Images[i], render.Identity); err != nil {
			return err
		}
	}

	if v.cfg.Export.Dir == "" {
		return nil
	}
	paths, err := v.exporter().SaveRaw(images.Images, labels.Labels, n)
	if err != nil {
		return err
	}
	v.logger.Info("exported images", zap.String("dir", v.cfg.Export.Dir), zap.Int("files", len(paths)))
	return nil
}

// showSummary prints per-label statistics instead of images
func (v *viewer) showSummary(labels *idx.LabelFile, images *idx.ImageFile) error {
	summary, err := stats.ByLabel(labels.Labels, images.Images)
	if err != nil {
		return err
	}
	return stats.WriteTable(v.stdout, summary)
}

func (v *viewer) exporter() *visualization.Exporter {
	return visualization.NewExporter(v.cfg.Export.Dir, v.cfg.Export.Scale, v.cfg.Export.Blur)
}

func (v *viewer) warnIfTooWide(columns int) {
	width, ok := render.TerminalWidth(v.stdout)
	if !ok {
		return
	}
	if need := columns * v.cfg.Render.BlockWidth; need > width {
		v.logger.Warn("images are wider than the terminal",
			zap.Int("needed", need),
			zap.Int("terminal", width))
	}
}
