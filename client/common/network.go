package common

import (
	"fmt"
	"os"
	"strings"
)

const explorerBaseURL = "https://explorer.solana.com"

type Network struct {
	RPCEndpoint     string
	ExplorerCluster string
	Name            string
}

func LoadNetwork(name string) Network {
	switch name {
	case "localnet":
		return Network{
			RPCEndpoint:     "http://localhost:8899",
			ExplorerCluster: "custom",
			Name:            "localnet",
		}

	case "devnet":
		return Network{
			RPCEndpoint:     "https://api.devnet.solana.com",
			ExplorerCluster: "devnet",
			Name:            "devnet",
		}

	case "testnet":
		return Network{
			RPCEndpoint:     "https://api.testnet.solana.com",
			ExplorerCluster: "testnet",
			Name:            "testnet",
		}

	case "mainnet-beta":
		return Network{
			RPCEndpoint: "https://api.mainnet-beta.solana.com",
			Name:        "mainnet-beta",
		}
	}

	return Network{}
}

// ExplorerTxURL returns the block explorer link for a transaction on the network.
func (n Network) ExplorerTxURL(txID string) string {
	if n.ExplorerCluster == "" {
		return fmt.Sprintf("%s/tx/%s", explorerBaseURL, txID)
	}
	return fmt.Sprintf("%s/tx/%s?cluster=%s", explorerBaseURL, txID, n.ExplorerCluster)
}

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home + strings.TrimPrefix(path, "~"), nil
}
