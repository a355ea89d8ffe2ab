package pipeline

import (
	"math"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type runSampleParquetRow struct {
	RunIndex   int64   `parquet:"name=run_index, type=INT64"`
	PointIndex int64   `parquet:"name=point_index, type=INT64"`
	TSUTCISO   string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Lat        float64 `parquet:"name=lat, type=DOUBLE"`
	Lon        float64 `parquet:"name=lon, type=DOUBLE"`
	SpeedKMH   float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	ElapsedS   float64 `parquet:"name=elapsed_s, type=DOUBLE"`
	DistanceM  float64 `parquet:"name=distance_m, type=DOUBLE"`
}

func writeSamplesParquet(path string, samples []RunSample) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(runSampleParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range samples {
		row := runSampleParquetRow{
			RunIndex:   int64(s.RunIndex),
			PointIndex: int64(s.PointIndex),
			TSUTCISO:   s.TSUTCISO,
			Lat:        s.Lat,
			Lon:        s.Lon,
			SpeedKMH:   valueOrNaN(s.SpeedKMH),
			ElapsedS:   s.ElapsedS,
			DistanceM:  s.DistanceM,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// valueOrNaN maps a missing value to NaN for the non-nullable columns.
func valueOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
