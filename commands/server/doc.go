/*
Package server provides the commands shared by application daemons: "init"
adds the application state to a tendermint genesis file and "start" serves
the ABCI application over a socket.
*/
package server
