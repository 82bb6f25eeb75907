package formatter

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/namelessknight/autostartstop/internal/models"
	"github.com/namelessknight/autostartstop/pkg/reconcile"
	"github.com/namelessknight/autostartstop/pkg/schedule"
	testify "github.com/stretchr/testify/assert"
)

var jst = time.FixedZone("UTC+9", 9*3600)

func TestPrintReconcileTable(t *testing.T) {
	assert := testify.New(t)

	summary := reconcile.Summary{
		DefaultAction: schedule.ActionStart,
		Results: []reconcile.Result{
			{
				Instance: models.InstanceRecord{ID: "i-aaa", TagValue: "true", Tags: map[string]string{"Name": "web-1"}},
				Action:   schedule.ResolvedStart,
			},
			{
				Instance: models.InstanceRecord{ID: "i-bbb", TagValue: "random"},
				Action:   schedule.ResolvedNone,
			},
			{
				Instance: models.InstanceRecord{ID: "i-ccc", TagValue: "start"},
				Action:   schedule.ResolvedStart,
				Err:      fmt.Errorf("insufficient capacity"),
			},
		},
		Started: 1,
		Skipped: 1,
		Failed:  1,
	}

	var buf bytes.Buffer
	PrintReconcileTable(&buf, summary, time.Now(), 2*time.Second)

	out := buf.String()
	assert.Contains(out, "i-aaa")
	assert.Contains(out, "web-1")
	assert.Contains(out, "skipped")
	assert.Contains(out, "failed: insufficient capacity")
}

func TestPrintReconcileTableEmpty(t *testing.T) {
	assert := testify.New(t)

	var buf bytes.Buffer
	PrintReconcileTable(&buf, reconcile.Summary{}, time.Now(), time.Second)
	assert.Contains(buf.String(), "No instances carry the scheduling tag")
}

func TestPrintReconcileSummary(t *testing.T) {
	assert := testify.New(t)

	policy := schedule.TimePolicy{StartHour: 8, EndHour: 18, Location: jst}
	summary := reconcile.Summary{DefaultAction: schedule.ActionStop, Stopped: 2}

	var buf bytes.Buffer
	now := time.Date(2025, time.July, 9, 20, 0, 0, 0, jst)
	PrintReconcileSummary(&buf, summary, policy, now)

	out := buf.String()
	assert.Contains(out, "Default action: stop")
	assert.Contains(out, "Stopped: 2")
	assert.Contains(out, "2025-07-10 08:00")
}
