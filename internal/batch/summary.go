package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Stats aggregates a batch result.
type Stats struct {
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	FailedFiles    int           `json:"failed_files"`
	SkippedFiles   int           `json:"skipped_files"`
	Levels         int           `json:"levels"`
	Vertices       int           `json:"vertices"`
	WorkerCount    int           `json:"workers"`
	TotalDuration  time.Duration `json:"total_duration_ns"`
	AveragePerFile time.Duration `json:"average_per_file_ns"`
}

// Stats computes summary statistics.
func (r *Result) Stats() Stats {
	s := Stats{TotalFiles: len(r.Files), WorkerCount: r.WorkerCount, TotalDuration: r.Duration}
	var busy time.Duration
	for _, f := range r.Files {
		switch {
		case f.Skipped:
			s.SkippedFiles++
		case f.Err != nil:
			s.FailedFiles++
		default:
			s.ProcessedFiles++
			s.Levels += f.Levels()
			s.Vertices += f.Output.Vertices()
			busy += f.Duration
		}
	}
	if s.ProcessedFiles > 0 {
		s.AveragePerFile = busy / time.Duration(s.ProcessedFiles)
	}
	return s
}

type fileSummary struct {
	File       string `json:"file"`
	Rows       int    `json:"rows,omitempty"`
	Cols       int    `json:"cols,omitempty"`
	Levels     int    `json:"levels"`
	Vertices   int    `json:"vertices"`
	OutputFile string `json:"output_file,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func (r *Result) summaries() []fileSummary {
	out := make([]fileSummary, len(r.Files))
	for i, f := range r.Files {
		s := fileSummary{
			File:       f.Path,
			Rows:       f.Rows,
			Cols:       f.Cols,
			Levels:     f.Levels(),
			OutputFile: f.OutputFile,
			DurationMS: f.Duration.Milliseconds(),
		}
		if f.Output != nil {
			s.Vertices = f.Output.Vertices()
		}
		if f.Err != nil {
			s.Error = f.Err.Error()
		}
		out[i] = s
	}
	return out
}

// WriteSummary writes a per-file summary as json, csv or text.
func (r *Result) WriteSummary(w io.Writer, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Files []fileSummary `json:"files"`
			Stats Stats         `json:"stats"`
		}{r.summaries(), r.Stats()})
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"file", "rows", "cols", "levels", "vertices", "output_file", "duration_ms", "error"})
		for _, s := range r.summaries() {
			_ = cw.Write([]string{
				s.File,
				strconv.Itoa(s.Rows),
				strconv.Itoa(s.Cols),
				strconv.Itoa(s.Levels),
				strconv.Itoa(s.Vertices),
				s.OutputFile,
				strconv.FormatInt(s.DurationMS, 10),
				s.Error,
			})
		}
		cw.Flush()
		return cw.Error()
	default:
		return r.writeText(w)
	}
}

func (r *Result) writeText(w io.Writer) error {
	for _, s := range r.summaries() {
		var err error
		if s.Error != "" {
			_, err = fmt.Fprintf(w, "%s: error: %s\n", s.File, s.Error)
		} else {
			_, err = fmt.Fprintf(w, "%s: %dx%d, %d levels, %d vertices\n", s.File, s.Rows, s.Cols, s.Levels, s.Vertices)
		}
		if err != nil {
			return err
		}
	}
	st := r.Stats()
	_, err := fmt.Fprintf(w, "\nProcessing Statistics:\n"+
		"  Total files: %d\n  Processed: %d\n  Failed: %d\n  Skipped: %d\n"+
		"  Workers: %d\n  Duration: %v\n  Avg per file: %v\n",
		st.TotalFiles, st.ProcessedFiles, st.FailedFiles, st.SkippedFiles,
		st.WorkerCount, st.TotalDuration.Round(time.Millisecond), st.AveragePerFile.Round(time.Microsecond))
	return err
}
