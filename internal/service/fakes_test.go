package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/Riddhikharpe/house-helpers/internal/model"
)

// fakeRepo is an in-memory repository.HelperRepository. Set the *Err fields
// to simulate storage failures.
type fakeRepo struct {
	records   []model.HelperRecord
	appendErr error
	queryErr  error
	exportErr error
	export    []byte
}

func (f *fakeRepo) Initialize(context.Context) error { return nil }

func (f *fakeRepo) Append(_ context.Context, r *model.HelperRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, *r)
	return nil
}

func (f *fakeRepo) QueryAll(context.Context) ([]model.HelperRecord, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	out := make([]model.HelperRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeRepo) Export(context.Context) ([]byte, error) {
	if f.exportErr != nil {
		return nil, f.exportErr
	}
	return f.export, nil
}

func (f *fakeRepo) Filename() string { return "house_helps.xlsx" }

type savedPhoto struct {
	filename string
	data     []byte
}

type fakePhotos struct {
	saved []savedPhoto
	err   error
}

func (f *fakePhotos) Save(_ context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, savedPhoto{filename, data})
	return "uploads/" + filename, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
