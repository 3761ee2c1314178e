package metrics

import (
	"fmt"

	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

func PrintResults(result loadtesttypes.LoadTestResult) {
	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Run: %s (%s)\n", result.RunID, result.Kind)

	if len(result.Bootstrap) > 0 {
		fmt.Println("\n🔧 Bootstrap Transactions:")
		for _, tx := range result.Bootstrap {
			fmt.Printf("  %s nonce=%d hash=%s", tx.MsgType, tx.Nonce, tx.TxHash)
			if tx.EnergyCost > 0 {
				fmt.Printf(" energy=%d", tx.EnergyCost)
			}
			if tx.ContractAddress != "" {
				fmt.Printf(" contract=%s", tx.ContractAddress)
			}
			fmt.Println()
		}
	}

	fmt.Println("\n🎯 Overall Statistics:")
	fmt.Printf("Total Transactions: %d\n", result.Overall.TotalTransactions)
	fmt.Printf("Successful Transactions: %d\n", result.Overall.SuccessfulTransactions)
	fmt.Printf("Failed Transactions: %d\n", result.Overall.FailedTransactions)
	if result.Overall.TotalTransactions > 0 {
		fmt.Printf("Nonces: %d..%d\n", result.Overall.FirstNonce, result.Overall.LastNonce)
	}
	fmt.Printf("Total Energy: %d\n", result.Overall.TotalEnergy)
	fmt.Printf("Runtime: %s\n", result.Overall.Runtime)
	fmt.Printf("Target TPS: %.2f\n", result.Overall.TargetTPS)
	fmt.Printf("Transactions Per Second (TPS): %.2f\n", result.Overall.TPS)

	lat := result.Overall.SubmitLatency
	fmt.Println("\n⏱  Submission Latency:")
	fmt.Printf("  Min: %s  Mean: %s  Max: %s\n", lat.Min, lat.Mean, lat.Max)
	fmt.Printf("  P50: %s  P90: %s  P99: %s\n", lat.P50, lat.P90, lat.P99)

	fmt.Println("\n📊 Message Type Statistics:")
	for msgType, stats := range result.ByMessage {
		fmt.Printf("\n%s:\n", msgType)
		fmt.Printf("  Transactions:\n")
		fmt.Printf("    Total Sent: %d\n", stats.Transactions.Total)
		fmt.Printf("    Successful: %d\n", stats.Transactions.Successful)
		fmt.Printf("    Failed: %d\n", stats.Transactions.Failed)
		fmt.Printf("  Energy:\n")
		fmt.Printf("    Average: %d\n", stats.Energy.Average)
		fmt.Printf("    Min: %d\n", stats.Energy.Min)
		fmt.Printf("    Max: %d\n", stats.Energy.Max)
		fmt.Printf("    Total: %d\n", stats.Energy.Total)
	}

	if result.Error != "" {
		fmt.Printf("\n❌ Error: %s\n", result.Error)
	}
}
