package bindings

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind/v2"
	"github.com/ethereum/go-ethereum/common"
)

// DRCMetaData contains the meta data of the on-ledger allow-list contract.
var DRCMetaData = bind.MetaData{
	ABI: "[{\"type\":\"function\",\"name\":\"isMyContract\",\"inputs\":[{\"name\":\"_address\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[{\"name\":\"\",\"type\":\"bool\",\"internalType\":\"bool\"}],\"stateMutability\":\"view\"},{\"type\":\"function\",\"name\":\"addAddress\",\"inputs\":[{\"name\":\"_address\",\"type\":\"address\",\"internalType\":\"address\"}],\"outputs\":[],\"stateMutability\":\"nonpayable\"}]",
	ID:  "DRC",
}

// DRC is a Go binding around the allow-list contract.
type DRC struct {
	abi abi.ABI
}

// NewDRC creates a new instance of DRC.
func NewDRC() *DRC {
	parsed, err := DRCMetaData.ParseABI()
	if err != nil {
		panic(errors.New("invalid ABI: " + err.Error()))
	}
	return &DRC{abi: *parsed}
}

// ABI returns the parsed contract ABI.
func (c *DRC) ABI() abi.ABI {
	return c.abi
}

// PackIsMyContract packs the parameters for isMyContract. It panics on invalid input.
//
// Solidity: function isMyContract(address _address) view returns(bool)
func (dRC *DRC) PackIsMyContract(address common.Address) []byte {
	enc, err := dRC.abi.Pack("isMyContract", address)
	if err != nil {
		panic(err)
	}
	return enc
}

// TryPackIsMyContract packs the parameters for isMyContract.
//
// Solidity: function isMyContract(address _address) view returns(bool)
func (dRC *DRC) TryPackIsMyContract(address common.Address) ([]byte, error) {
	return dRC.abi.Pack("isMyContract", address)
}

// UnpackIsMyContract unpacks the return value of isMyContract.
//
// Solidity: function isMyContract(address _address) view returns(bool)
func (dRC *DRC) UnpackIsMyContract(data []byte) (bool, error) {
	out, err := dRC.abi.Unpack("isMyContract", data)
	if err != nil {
		return *new(bool), err
	}
	out0 := *abi.ConvertType(out[0], new(bool)).(*bool)
	return out0, nil
}

// PackAddAddress packs the parameters for addAddress. It panics on invalid input.
//
// Solidity: function addAddress(address _address) returns()
func (dRC *DRC) PackAddAddress(address common.Address) []byte {
	enc, err := dRC.abi.Pack("addAddress", address)
	if err != nil {
		panic(err)
	}
	return enc
}

// TryPackAddAddress packs the parameters for addAddress.
//
// Solidity: function addAddress(address _address) returns()
func (dRC *DRC) TryPackAddAddress(address common.Address) ([]byte, error) {
	return dRC.abi.Pack("addAddress", address)
}
