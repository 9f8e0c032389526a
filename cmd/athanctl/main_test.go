package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/athan/internal/model"
)

const aprilCSV = "Jour,Date,Imsak,Fajr,Chouruq,Dohr,Asr,Maghreb,Isha\n" +
	"Mar,1,05:02,05:12,06:58,13:45,17:20,20:33,21:58\n" +
	"Mer,2,05:00,05:10,06:56,13h45,17:21,20:34,22:00\n"

func writeTimetable(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "avril.csv")
	require.NoError(t, os.WriteFile(path, []byte(aprilCSV), 0o600))
	return path
}

var fixedNow = time.Date(2025, time.April, 2, 9, 0, 0, 0, time.UTC)

func TestRun_JSON(t *testing.T) {
	var out bytes.Buffer
	err := run([]string{"--file", writeTimetable(t), "--day", "2", "--at", "13:45", "--json"}, &out, fixedNow)
	require.NoError(t, err)

	var res result
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, "13h45", res.Schedule.Dohr)
	assert.Equal(t, model.Dohr, res.Next.Name)
	assert.True(t, res.Selected)
}

func TestRun_Table(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--file", writeTimetable(t), "--day", "1"}, &out, fixedNow))
	assert.Contains(t, out.String(), "April 1 at 09:00")
	assert.Regexp(t, `DOHR\s+01:45 PM\s+<- next`, out.String())
}

func TestRun_AfterIsha(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--file", writeTimetable(t), "--at", "23:30"}, &out, fixedNow))
	assert.Contains(t, out.String(), "no prayer left today")
}

func TestRun_Errors(t *testing.T) {
	path := writeTimetable(t)
	cases := map[string][]string{
		"missing file":  {},
		"bad month":     {"--file", path, "--month", "13"},
		"bad time":      {"--file", path, "--at", "25:00"},
		"day not found": {"--file", path, "--day", "9"},
		"unknown type":  {"--file", filepath.Join(filepath.Dir(path), "avril.pdf")},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, run(args, &bytes.Buffer{}, fixedNow))
		})
	}
}
