//go:build js && wasm

package main

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"syscall/js"
	"time"

	"github.com/klauspost/compress/zip"

	"github.com/lucasjlepore/ride-power/pipeline"
	"github.com/lucasjlepore/ride-power/power"
)

// zipEpoch pins entry times so identical inputs give identical archives.
var zipEpoch = time.Unix(0, 0).UTC()

func main() {
	js.Global().Set("estimateRidePower", js.FuncOf(estimateRidePower))
	select {}
}

// estimateRidePower(fileBytes Uint8Array, options object) returns
// {ok, zip, files, warnings, notes, estimated_avg_power_w} or {ok: false, error}.
func estimateRidePower(_ js.Value, args []js.Value) any {
	if len(args) < 2 {
		return failure("expected arguments: fileBytes(Uint8Array), options(object)")
	}
	fitData, err := copyBytes(args[0])
	if err != nil {
		return failure(err.Error())
	}
	o := jsOptions{args[1]}

	result, err := pipeline.RunBytes(pipeline.BytesOptions{
		ModelOptions: pipeline.ModelOptions{
			RiderWeightKG:     o.number("rider_weight_kg", power.DefaultRiderWeightKG),
			BikeWeightKG:      o.number("bike_weight_kg", power.DefaultBikeWeightKG),
			RollingResistance: o.number("rolling_resistance", 0),
			Tire:              o.text("tire", ""),
			Friction:          o.text("friction", power.FrictionLegacy.String()),
			Window:            int(o.number("window", power.DefaultWindow)),
			StartIndex:        int(o.number("start_index", 0)),
			EndIndex:          int(o.number("end_index", math.MaxInt32)),
		},
		SourceFileName: o.text("source_file_name", "input.fit"),
		FitData:        fitData,
		Format:         o.text("format", "csv"),
		CopySource:     true,
	})
	if err != nil {
		return failure(err.Error())
	}

	names := artifactOrder(result.Files)
	archive, err := bundle(result.Files, names)
	if err != nil {
		return failure(fmt.Sprintf("create zip: %v", err))
	}
	payload := js.Global().Get("Uint8Array").New(len(archive))
	js.CopyBytesToJS(payload, archive)

	return map[string]any{
		"ok":                    true,
		"zip":                   payload,
		"files":                 toJSArray(names),
		"warnings":              toJSArray(result.Warnings),
		"notes":                 result.Analysis.Notes,
		"estimated_avg_power_w": result.Analysis.EstimatedAvgPowerWatts,
	}
}

func failure(msg string) map[string]any {
	return map[string]any{"ok": false, "error": msg}
}

func copyBytes(v js.Value) ([]byte, error) {
	if v.IsUndefined() || v.IsNull() || v.Get("length").Int() == 0 {
		return nil, fmt.Errorf("fit file bytes are required")
	}
	out := make([]byte, v.Get("length").Int())
	if js.CopyBytesToGo(out, v) != len(out) {
		return nil, fmt.Errorf("short read of FIT bytes from JS input")
	}
	return out, nil
}

// jsOptions reads optional fields from a JS options object.
type jsOptions struct {
	v js.Value
}

func (o jsOptions) field(key string) (js.Value, bool) {
	if o.v.IsUndefined() || o.v.IsNull() {
		return js.Value{}, false
	}
	f := o.v.Get(key)
	if f.IsUndefined() || f.IsNull() {
		return js.Value{}, false
	}
	return f, true
}

func (o jsOptions) number(key string, fallback float64) float64 {
	f, ok := o.field(key)
	if !ok || f.Type() != js.TypeNumber {
		return fallback
	}
	return f.Float()
}

func (o jsOptions) text(key, fallback string) string {
	f, ok := o.field(key)
	if !ok || f.Type() != js.TypeString || f.String() == "" {
		return fallback
	}
	return f.String()
}

// artifactOrder puts manifest.json first, then the rest by name.
func artifactOrder(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == "manifest.json") != (names[j] == "manifest.json") {
			return names[i] == "manifest.json"
		}
		return names[i] < names[j]
	})
	return names
}

func bundle(files map[string][]byte, names []string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: zipEpoch})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(files[name]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toJSArray(values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}
