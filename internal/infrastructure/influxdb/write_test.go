package influxdb

import (
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/currently-core/internal/infrastructure/config"
)

func TestEstimatePoint(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	roomID := int64(3)

	tests := []struct {
		name   string
		in     Estimate
		expect []string
	}{
		{
			name: "assigned",
			in: Estimate{
				UserID: "u-1", ApplianceID: 9, ApplianceName: "Fridge", UsageType: "continuous",
				RoomID: &roomID, DailyKWh: 3.6, DailyCost: 1.08, At: at,
			},
			expect: []string{
				"appliance_estimate,",
				"appliance=Fridge",
				"room_id=3",
				"usage_type=continuous",
				"user_id=u-1",
				"appliance_id=9i",
				"daily_kwh=3.6",
				"daily_cost=1.08",
			},
		},
		{
			name: "unassigned",
			in: Estimate{
				UserID: "u-1", ApplianceID: 10, ApplianceName: "Kettle", UsageType: "perUse",
				DailyKWh: 0.4, DailyCost: 0.12, At: at,
			},
			expect: []string{"room_id=unassigned", "appliance=Kettle"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := write.PointToLineProtocol(estimatePoint(tt.in), time.Second)
			for _, want := range tt.expect {
				if !strings.Contains(line, want) {
					t.Errorf("line %q missing %q", line, want)
				}
			}
			if !strings.HasSuffix(strings.TrimSpace(line), "1772355600") {
				t.Errorf("line %q has wrong timestamp", line)
			}
		})
	}
}

func TestEstimatePoint_DefaultsTime(t *testing.T) {
	before := time.Now()
	p := estimatePoint(Estimate{UserID: "u-1"})
	if p.Time().Before(before) {
		t.Errorf("point time %v is before %v", p.Time(), before)
	}
}

func TestBatchSettings(t *testing.T) {
	tests := []struct {
		name              string
		batch, flush      int
		wantBatch, wantFl int
	}{
		{"configured", 50, 2, 50, 2},
		{"zero", 0, 0, defaultBatchSize, defaultFlushSeconds},
		{"negative", -5, -1, defaultBatchSize, defaultFlushSeconds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, f := batchSettings(config.InfluxDBConfig{BatchSize: tt.batch, FlushInterval: tt.flush})
			if b != tt.wantBatch || f != tt.wantFl {
				t.Errorf("batchSettings() = (%d, %d), want (%d, %d)", b, f, tt.wantBatch, tt.wantFl)
			}
		})
	}
}
