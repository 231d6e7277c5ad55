package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/loopcraft/trackline/internal/capture"
	"github.com/loopcraft/trackline/internal/config"
	"github.com/loopcraft/trackline/internal/effects"
	"github.com/loopcraft/trackline/internal/record"
	"github.com/loopcraft/trackline/internal/song"
	"github.com/loopcraft/trackline/internal/timemath"
	"github.com/loopcraft/trackline/internal/waveform"
)

var version = "0.1.0"

var (
	flagTrack   string
	flagSeconds int
	flagZoom    float64
)

func main() {
	godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "trackline",
	Short:   "Multitrack timeline editor engine",
	Long:    "Trackline edits multitrack song files: tracks, clips, voice-effect presets,\nand live microphone recording with waveform previews.",
	Version: version,
}

var newCmd = &cobra.Command{
	Use:   "new <song.json>",
	Short: "Create an empty song file",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <song.json>",
	Short: "Print a song's tracks, clips, and waveform sketches",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var recordCmd = &cobra.Command{
	Use:   "record <song.json>",
	Short: "Record from the default microphone into a track",
	Long: `Record captures the default input for a fixed number of seconds into the
named track (created if missing), then finalizes the take as a WAV file
and updates the song.

Example:
  trackline record demo.json --track Vocals --seconds 10`,
	Args: cobra.ExactArgs(1),
	RunE: runRecord,
}

var presetCmd = &cobra.Command{
	Use:   "preset <song.json> <track> <style>",
	Short: "Apply a voice-style effect preset to a track",
	Long:  "Styles: " + styleList(),
	Args:  cobra.ExactArgs(3),
	RunE:  runPreset,
}

func init() {
	recordCmd.Flags().StringVar(&flagTrack, "track", "Vocals", "target track name")
	recordCmd.Flags().IntVar(&flagSeconds, "seconds", 10, "recording length")
	inspectCmd.Flags().Float64Var(&flagZoom, "zoom", 1.0, "timeline zoom for waveform sketches")

	rootCmd.AddCommand(newCmd, inspectCmd, recordCmd, presetCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	s := song.Song{
		Tempo:         cfg.DefaultTempo,
		TimeSignature: [2]int{4, 4},
		DurationBars:  cfg.DefaultBars,
		Tracks:        []*song.Track{},
	}
	if err := song.Save(s, args[0]); err != nil {
		return err
	}
	fmt.Printf("Created %s (%.0f BPM, %d bars)\n", args[0], s.Tempo, s.DurationBars)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	s, err := song.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %.1f BPM, %d/%d, %d bars, %d tracks\n",
		args[0], s.Tempo, s.TimeSignature[0], s.TimeSignature[1], s.DurationBars, len(s.Tracks))

	for _, tr := range s.Tracks {
		style := ""
		if tr.VocalStyle != "" {
			style = fmt.Sprintf(" [%s]", tr.VocalStyle)
		}
		fmt.Printf("\n%s (%s)%s vol=%.2f pan=%+.2f clips=%d\n",
			tr.Name, tr.Instrument, style, tr.Volume, tr.Pan, len(tr.Clips))

		for _, c := range tr.Clips {
			fmt.Printf("  %-8s %6.2f +%5.2f  %s\n", c.Type, c.StartTime, c.Duration, c.SampleURL)
			if len(c.Waveform) > 0 {
				fmt.Printf("  %s\n", sketch(c, s.Tempo, flagZoom))
			}
		}
	}
	return nil
}

// sketch renders a clip waveform as one row of block characters, using the
// same draw list the graphical renderer consumes. One column stands in for
// 8 screen pixels at the chosen zoom.
func sketch(c *song.Clip, tempo, zoom float64) string {
	const height = 8.0
	px := timemath.BeatsToPixels(c.Duration, timemath.BeatWidth(zoom))
	cols := int(px / 8)
	if cols < 8 {
		cols = 8
	}
	if cols > 96 {
		cols = 96
	}

	preview := waveform.BuildPreview(c.Waveform, cols)
	dl := waveform.Render(preview, float64(cols), height, 0)

	blocks := []rune(" ▁▂▃▄▅▆▇█")
	var b strings.Builder
	for _, bar := range dl.Bars {
		idx := int(bar.H / height * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

func runRecord(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	loaded, err := song.Load(args[0])
	if err != nil {
		return err
	}
	store := song.FromSong(loaded)

	trackID := findTrackByName(store, flagTrack)
	if trackID == "" {
		trackID = store.AddTrack(flagTrack, "voice", "voice")
		log.Printf("Created track %q", flagTrack)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	device := capture.NewMicDevice(cfg.TakesDir)
	sess := record.NewSession(store, device, record.NewRegistry(), trackID, record.Config{
		CountdownBeats:  cfg.CountdownBeats,
		PreviewInterval: cfg.PreviewInterval,
		ElapsedInterval: cfg.ElapsedInterval,
		StopTimeout:     cfg.StopTimeout,
		PreviewLength:   cfg.PreviewLength,
	})
	sess.OnCountdown = func(left int) { fmt.Printf("%d...\n", left) }

	if err := sess.Start(ctx); err != nil {
		return fmt.Errorf("start recording: %w", err)
	}
	fmt.Printf("Recording %ds on %q (Ctrl-C to stop early)\n", flagSeconds, flagTrack)

	select {
	case <-ctx.Done():
		fmt.Println("\nStopping early...")
	case <-time.After(time.Duration(flagSeconds) * time.Second):
	}

	sess.Stop()
	<-sess.Done()

	clips := store.Clips(trackID)
	if len(clips) == 0 {
		return fmt.Errorf("recording produced no clip")
	}
	if err := song.Save(store.Snapshot(), args[0]); err != nil {
		return err
	}
	last := clips[len(clips)-1]
	fmt.Printf("Saved %s (%.2f beats) to %s\n", last.SampleURL, last.Duration, args[0])
	return nil
}

func runPreset(cmd *cobra.Command, args []string) error {
	path, trackName, style := args[0], args[1], song.VocalStyle(args[2])
	if !effects.IsValidStyle(style) {
		return fmt.Errorf("unknown style %q (styles: %s)", style, styleList())
	}

	loaded, err := song.Load(path)
	if err != nil {
		return err
	}
	store := song.FromSong(loaded)

	trackID := findTrackByName(store, trackName)
	if trackID == "" {
		return fmt.Errorf("no track named %q", trackName)
	}

	effects.Apply(store, trackID, style)
	if err := song.Save(store.Snapshot(), path); err != nil {
		return err
	}
	fmt.Printf("Applied %s to %q\n", style, trackName)
	return nil
}

func findTrackByName(store *song.Store, name string) string {
	for _, id := range store.TrackIDs() {
		if tr, ok := store.Track(id); ok && tr.Name == name {
			return id
		}
	}
	return ""
}

func styleList() string {
	names := make([]string, len(effects.Styles))
	for i, s := range effects.Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
