package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsNegativesAndUnknownEnums(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"profile ok", (&UserProfile{UserType: UserTypeStudent}).Validate(), false},
		{"profile negative points", (&UserProfile{TotalPoints: -1, UserType: UserTypeStudent}).Validate(), true},
		{"profile bad type", (&UserProfile{UserType: "janitor"}).Validate(), true},
		{"entry ok", (&Entry{NoBottle: 1, Points: 0}).Validate(), false},
		{"entry zero bottles", (&Entry{NoBottle: 0, Points: 1}).Validate(), true},
		{"entry negative points", (&Entry{NoBottle: 1, Points: -1}).Validate(), true},
		{"reward ok", (&RewardItem{RewardName: "Sticker", PointsRequired: 0}).Validate(), false},
		{"reward unnamed", (&RewardItem{PointsRequired: 5}).Validate(), true},
		{"reward negative cost", (&RewardItem{RewardName: "Sticker", PointsRequired: -5}).Validate(), true},
		{"redemption negative", (&RedeemedPoints{RedeemedPoints: -1}).Validate(), true},
		{"device ok", (&Device{DeviceName: "Sorter", Status: DeviceStatusOffline}).Validate(), false},
		{"device bad status", (&Device{DeviceName: "Sorter", Status: "sleeping"}).Validate(), true},
		{"device negative counter", (&Device{DeviceName: "Sorter", Status: DeviceStatusOnline, TotalBottlesProcessed: -1}).Validate(), true},
		{"log ok", (&DeviceLog{LogType: LogTypeBottleDetected}).Validate(), false},
		{"log bad type", (&DeviceLog{LogType: "nap"}).Validate(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				assert.Error(t, tt.err)
			} else {
				assert.NoError(t, tt.err)
			}
		})
	}
}

func TestDeviceLogSortResultValidation(t *testing.T) {
	good := SortResultPlastic
	bad := SortResult("glass")

	assert.NoError(t, (&DeviceLog{LogType: LogTypeBottleSorted, SortResult: &good}).Validate())
	assert.Error(t, (&DeviceLog{LogType: LogTypeBottleSorted, SortResult: &bad}).Validate())
}
