package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAddOutput 两数求和，JSON 字段顺序固定
func TestAddOutput(t *testing.T) {
	cases := []struct {
		num1, num2 string
		want       string
	}{
		{"10", "2", `{"success":true,"sum":12}`},
		{"0", "0", `{"success":true,"sum":0}`},
		{"-5", "3", `{"success":true,"sum":-2}`},
		{"7", "7", `{"success":true,"sum":14}`},
	}
	for _, tc := range cases {
		got, err := addOutput(tc.num1, tc.num2)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

// TestAddOutputInvalid 非数字参数报错
func TestAddOutputInvalid(t *testing.T) {
	_, err := addOutput("ten", "2")
	assert.Error(t, err)

	_, err = addOutput("1", "2.5")
	assert.Error(t, err, "浮点输入应视为非法整数")
}
