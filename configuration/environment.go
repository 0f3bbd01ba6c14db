// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvironment - add the variables of a dotenv file to the process
// environment so the configuration can read them with os.getenv
//
// variables already set in the environment are not overridden, a
// missing file is only an error when required is set
func LoadEnvironment(fileName string, required bool) (bool, error) {
	if "" == fileName {
		return false, nil
	}
	if _, err := os.Stat(fileName); nil != err {
		if os.IsNotExist(err) && !required {
			return false, nil
		}
		return false, err
	}
	if err := godotenv.Load(fileName); nil != err {
		return false, err
	}
	return true, nil
}
