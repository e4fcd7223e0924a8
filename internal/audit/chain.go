package audit

import (
	"context"
	"errors"

	"ailetic/entity"
)

// Chain runs recorders in order. Later recorders see fields set by earlier
// ones, so the archive goes before the repository. A failing recorder does not
// stop the rest.
type Chain []entity.ComputeRecorder

func (c Chain) Record(ctx context.Context, rec *entity.ComputeRecord, artifact []byte) error {
	var errs []error
	for _, r := range c {
		if err := r.Record(ctx, rec, artifact); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
