package main

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func testRecords() []record {
	return []record{
		{Account: "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP", DepositAmount: big.NewInt(100), PreinformedAmount: big.NewInt(30)},
		{Account: "NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM", DepositAmount: big.NewInt(50), PreinformedAmount: big.NewInt(0)},
	}
}

func TestSummarize(t *testing.T) {
	sum := summarize(testRecords(), big.NewInt(150))
	require.Equal(t, 2, sum.Accounts)
	require.EqualValues(t, 150, sum.Deposited.Int64())
	require.EqualValues(t, 30, sum.Preinformed.Int64())
	require.True(t, sum.covered())

	sum = summarize(testRecords(), big.NewInt(149))
	require.False(t, sum.covered())

	sum = summarize(nil, big.NewInt(0))
	require.Zero(t, sum.Accounts)
	require.Zero(t, sum.Deposited.Sign())
	require.True(t, sum.covered())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	records := testRecords()
	require.NoError(t, writeJSON(&buf, records, summarize(records, big.NewInt(10))))

	var res struct {
		Records []record      `json:"records"`
		Summary ledgerSummary `json:"summary"`
		Covered bool          `json:"covered"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &res))
	require.Len(t, res.Records, 2)
	require.Equal(t, records[0].Account, res.Records[0].Account)
	require.EqualValues(t, 150, res.Summary.Deposited.Int64())
	require.False(t, res.Covered)
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer

	records := testRecords()
	writeTable(&buf, records, summarize(records, big.NewInt(200)))

	out := buf.String()
	require.Contains(t, out, "NfgHwwTi3wHAS8aFAN243C5vGbkYDpqLHP\tdeposit 100\tpre-informed 30")
	require.Contains(t, out, "Deposited:        150")
	require.Contains(t, out, "Contract balance: 200")
	require.Contains(t, out, "Covered:          true")
}
