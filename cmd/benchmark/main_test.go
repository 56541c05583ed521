package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("00:01:01.12"))
	assert.Equal(t, int64(60*60*1000+60*1000+1000+120), parseDuration("01:01:01.12"))
	assert.Equal(t, int64(60*1000+1000+120), parseDuration("1:01.12"))
	assert.Equal(t, int64(120), parseDuration("0:00.12"))
	assert.Equal(t, int64(120), parseDuration("00:00:00.12"))
}

func TestParseResourceLines(t *testing.T) {
	assert.Equal(t, int64(61120), parseDurationLine("\tElapsed (wall clock) time (h:mm:ss or m:ss): 1:01.12"))
	assert.Equal(t, float32(2), parseMemoryLine("\tMaximum resident set size (kbytes): 2048"))
	assert.Equal(t, int64(187), parseCpuPercentageLine("\tPercent of CPU this job got: 187%"))
}

func TestParseScore(t *testing.T) {
	output := "{\n  \"score\": -12.5\n}\nvalid: true\nscore: -12.5\n"
	assert.Equal(t, -12.5, parseScore(output))
}
