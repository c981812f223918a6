//go:build !js

package pipeline

import (
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// powerParquetRow mirrors samplesHeader. Missing values are stored as NaN.
type powerParquetRow struct {
	TSUTCISO       string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ElapsedS       float64 `parquet:"name=elapsed_s, type=DOUBLE"`
	RecordIndex    int64   `parquet:"name=record_index, type=INT64"`
	LatitudeDeg    float64 `parquet:"name=latitude_deg, type=DOUBLE"`
	LongitudeDeg   float64 `parquet:"name=longitude_deg, type=DOUBLE"`
	AltitudeM      float64 `parquet:"name=altitude_m, type=DOUBLE"`
	SpeedMPS       float64 `parquet:"name=speed_mps, type=DOUBLE"`
	DistanceM      float64 `parquet:"name=distance_m, type=DOUBLE"`
	PowerW         float64 `parquet:"name=power_w, type=DOUBLE"`
	HRBPM          float64 `parquet:"name=hr_bpm, type=DOUBLE"`
	CadenceRPM     float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	GravitationalW float64 `parquet:"name=gravitational_power_w, type=DOUBLE"`
	KineticW       float64 `parquet:"name=kinetic_power_w, type=DOUBLE"`
	FrictionalW    float64 `parquet:"name=frictional_power_w, type=DOUBLE"`
	CalculatedW    float64 `parquet:"name=calculated_power_w, type=DOUBLE"`
}

func marshalSamplesParquet(samples []PowerSample) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(powerParquetRow), 4)
	if err != nil {
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range samples {
		row := powerParquetRow{
			TSUTCISO:       s.TSUTCISO,
			ElapsedS:       s.ElapsedS,
			RecordIndex:    int64(s.RecordIndex),
			LatitudeDeg:    s.LatitudeDeg,
			LongitudeDeg:   s.LongitudeDeg,
			AltitudeM:      s.AltitudeM,
			SpeedMPS:       s.SpeedMPS,
			DistanceM:      s.DistanceM,
			PowerW:         s.PowerW,
			HRBPM:          s.HRBPM,
			CadenceRPM:     s.CadenceRPM,
			GravitationalW: s.GravitationalW,
			KineticW:       s.KineticW,
			FrictionalW:    s.FrictionalW,
			CalculatedW:    s.CalculatedW,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, err
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
