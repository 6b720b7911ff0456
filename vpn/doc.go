// Package vpn provides VPN connection management functionality for bitvpn.
//
// VPN connections are NetworkManager connections of type "vpn". The
// package never keeps its own record of them: every query runs
// "nmcli -t connection" and parses the terse NAME:UUID:TYPE:DEVICE rows.
//
// # Connection Flow
//
//  1. The caller asks IsConnected for the target connection.
//  2. If it is down, Connect runs "nmcli --wait 30 connection up".
//  3. When a password is given it is written to nmcli's stdin as
//     "vpn.secrets.password:<password>" through "passwd-file /dev/fd/0",
//     so it never appears on a command line.
//
// Every call blocks until nmcli exits; nmcli itself gives up after
// the --wait timeout.
package vpn
