package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/weighttrend/internal/weightlog"
	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type buildOptions struct {
	historyPath string
	userID      string
	window      string
	width       float64
	height      float64
	padding     float64
	target      float64
	current     float64
	now         string
	format      string
}

func newBuildCmd(opts *buildOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the chart model once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.input(cmd.Context(), cmd.Flags().Changed("target"), cmd.Flags().Changed("current"))
			if err != nil {
				return err
			}
			return buildAndWrite(cmd.OutOrStdout(), in, opts.format)
		},
	}
}

func newWindowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "windows",
		Short: "List the supported time windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, w := range weighttrend.AllTimeWindows {
				if days, ok := w.Days(); ok {
					fmt.Fprintf(out, "%s\t%d days\n", w, days)
				} else {
					fmt.Fprintf(out, "%s\tall history\n", w)
				}
			}
			return nil
		},
	}
}

// input loads the history and assembles the builder input. Explicit --target
// and --current flags win over the stored profile.
func (o *buildOptions) input(ctx context.Context, targetSet, currentSet bool) (weighttrend.Input, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if o.historyPath == "" {
		return weighttrend.Input{}, errors.New("--history is required")
	}

	window, err := weighttrend.ParseTimeWindow(o.window)
	if err != nil {
		return weighttrend.Input{}, err
	}

	now := time.Now().UTC()
	if o.now != "" {
		if now, err = time.Parse(time.RFC3339, o.now); err != nil {
			return weighttrend.Input{}, fmt.Errorf("parse --now: %w", err)
		}
	}

	entries, profile, err := o.loadHistory(ctx)
	if err != nil {
		return weighttrend.Input{}, err
	}

	in := weighttrend.Input{
		History: entries,
		Window:  window,
		Now:     now,
		Viewport: weighttrend.Viewport{
			Width:   o.width,
			Height:  o.height,
			Padding: o.padding,
		},
		TargetWeightKg:  profile.TargetWeightKg,
		CurrentWeightKg: profile.CurrentWeightKg,
	}
	if targetSet {
		target := o.target
		in.TargetWeightKg = &target
	}
	if currentSet {
		current := o.current
		in.CurrentWeightKg = &current
	}

	return in, nil
}

func (o *buildOptions) loadHistory(ctx context.Context) ([]weighttrend.WeightLogEntry, *weightlog.Profile, error) {
	switch strings.ToLower(filepath.Ext(o.historyPath)) {
	case ".db", ".sqlite", ".sqlite3":
		if o.userID == "" {
			return nil, nil, errors.New("--user is required for sqlite histories")
		}
		store, err := weightlog.OpenSQLite(ctx, o.historyPath)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()

		entries, err := store.ListEntries(ctx, o.userID)
		if err != nil {
			return nil, nil, err
		}
		profile, err := store.GetProfile(ctx, o.userID)
		if errors.Is(err, weightlog.ErrProfileNotFound) {
			profile, err = &weightlog.Profile{UserID: o.userID}, nil
		}
		if err != nil {
			return nil, nil, err
		}
		return entries, profile, nil
	default:
		history, err := weightlog.ReadHistoryFile(o.historyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read history file: %w", err)
		}
		return history.Entries, history.Profile(o.userID), nil
	}
}

func buildAndWrite(out io.Writer, in weighttrend.Input, format string) error {
	model, err := weighttrend.Build(in)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(model)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(model); err != nil {
			return err
		}
		return enc.Close()
	case "svg":
		return writeSVG(out, model, in.Viewport)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func writeSVG(out io.Writer, model *weighttrend.ChartModel, vp weighttrend.Viewport) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g">`+"\n", vp.Width, vp.Height)
	if model.AreaSVG != "" {
		fmt.Fprintf(&sb, `  <path d="%s" fill="#4a90e2" fill-opacity="0.15"/>`+"\n", model.AreaSVG)
	}
	if model.PathSVG != "" {
		fmt.Fprintf(&sb, `  <path d="%s" fill="none" stroke="#4a90e2" stroke-width="2"/>`+"\n", model.PathSVG)
	}
	if model.GoalLineY != nil {
		fmt.Fprintf(&sb, `  <line x1="%g" y1="%.2f" x2="%g" y2="%.2f" stroke="#2ecc71" stroke-dasharray="4 4"/>`+"\n",
			vp.Padding, *model.GoalLineY, vp.Width-vp.Padding, *model.GoalLineY)
	}
	for _, p := range model.Series {
		fmt.Fprintf(&sb, `  <circle cx="%.2f" cy="%.2f" r="3" fill="#4a90e2"/>`+"\n", p.X, p.Y)
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(out, sb.String())
	return err
}
