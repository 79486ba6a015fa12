package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordParse(t *testing.T) {
	okBefore := testutil.ToFloat64(parseTotal.WithLabelValues("frame", "ok"))
	errBefore := testutil.ToFloat64(parseTotal.WithLabelValues("frame", "error"))

	RecordParse("frame", nil)
	RecordParse("frame", errors.New("boom"))
	RecordParse("frame", errors.New("boom"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(parseTotal.WithLabelValues("frame", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(parseTotal.WithLabelValues("frame", "error")))
}

func TestRecordFingerprintAndRemap(t *testing.T) {
	before := testutil.ToFloat64(fingerprintTotal)
	RecordFingerprint()
	assert.Equal(t, before+1, testutil.ToFloat64(fingerprintTotal))

	mapped := testutil.ToFloat64(remapFramesTotal.WithLabelValues("mapped"))
	unmapped := testutil.ToFloat64(remapFramesTotal.WithLabelValues("unmapped"))
	RecordRemap(3, 1)
	assert.Equal(t, mapped+3, testutil.ToFloat64(remapFramesTotal.WithLabelValues("mapped")))
	assert.Equal(t, unmapped+1, testutil.ToFloat64(remapFramesTotal.WithLabelValues("unmapped")))
}
