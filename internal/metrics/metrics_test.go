package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordUpstream_Outcomes(t *testing.T) {
	okBefore := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("notion", "test", "ok"))
	errBefore := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("notion", "test", "error"))

	RecordUpstream("notion", "test", nil, time.Now())
	RecordUpstream("notion", "test", errors.New("boom"), time.Now())
	RecordUpstream("notion", "test", errors.New("boom"), time.Now())

	assert.Equal(t, okBefore+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("notion", "test", "ok")))
	assert.Equal(t, errBefore+2, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("notion", "test", "error")))
}

func TestRecordOmitted(t *testing.T) {
	before := testutil.ToFloat64(OmittedSubtreesTotal.WithLabelValues("depth"))
	RecordOmitted("depth")
	assert.Equal(t, before+1, testutil.ToFloat64(OmittedSubtreesTotal.WithLabelValues("depth")))
}
